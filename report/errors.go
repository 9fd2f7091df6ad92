// SPDX-License-Identifier: MIT

package report

import "errors"

// ErrNothingToPlot is returned by PlotGreensFunctions for results without
// Green's functions.
var ErrNothingToPlot = errors.New("report: no Green's functions to plot")
