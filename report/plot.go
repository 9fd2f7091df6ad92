// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/exactdiag/thermal"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// PlotGreensFunctions draws Re and Im of every Green's function in r against
// ω_n and saves the figure to path. The format follows the extension
// (.png, .svg, .pdf, ...).
func PlotGreensFunctions(r Results, path string) error {
	if len(r.GreensFunctions) == 0 {
		return fmt.Errorf("report.PlotGreensFunctions: %w", ErrNothingToPlot)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("G(iω_n), β = %g", r.Beta)
	p.X.Label.Text = "ω_n"
	p.Y.Label.Text = "G"
	p.Add(plotter.NewGrid())

	series := 0
	for _, g := range r.GreensFunctions {
		if g.Vanishing || len(g.Values) == 0 {
			continue
		}
		re := make(plotter.XYs, len(g.Values))
		im := make(plotter.XYs, len(g.Values))
		for k, v := range g.Values {
			w := imag(thermal.Fermionic(v.N, r.Beta))
			re[k] = plotter.XY{X: w, Y: v.Re}
			im[k] = plotter.XY{X: w, Y: v.Im}
		}
		for _, s := range []struct {
			name string
			xys  plotter.XYs
		}{{"Re", re}, {"Im", im}} {
			line, points, err := plotter.NewLinePoints(s.xys)
			if err != nil {
				return fmt.Errorf("report.PlotGreensFunctions: %w", err)
			}
			line.Color = plotutil.Color(series)
			points.Color = plotutil.Color(series)
			points.Shape = plotutil.Shape(series)
			p.Add(line, points)
			p.Legend.Add(fmt.Sprintf("%s G[%s,%s]", s.name, g.I, g.J), line, points)
			series++
		}
	}
	if series == 0 {
		return fmt.Errorf("report.PlotGreensFunctions: %w", ErrNothingToPlot)
	}
	p.Legend.Top = true

	if ext := strings.ToLower(filepath.Ext(path)); ext == "" {
		path += ".png"
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("report.PlotGreensFunctions(%s): %w", path, err)
	}

	return nil
}
