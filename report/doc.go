// SPDX-License-Identifier: MIT

// Package report turns a finished pipeline.Session into a YAML results
// document and plots Matsubara Green's functions with gonum/plot.
package report
