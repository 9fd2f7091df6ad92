// SPDX-License-Identifier: MIT

package linalg

import "math"

// Defaults (single source of truth).
const (
	// DefaultJacobiTolerance is the largest off-diagonal magnitude accepted
	// as converged.
	DefaultJacobiTolerance = 1e-13

	// DefaultJacobiMaxSweeps caps the work at sweeps * n(n-1)/2 rotations.
	DefaultJacobiMaxSweeps = 64

	// DefaultSymmetryEps is the asymmetry tolerance used by Triplets.Symmetric
	// when assembling Hamiltonian blocks.
	DefaultSymmetryEps = 1e-12
)

const (
	panicToleranceInvalid = "linalg: WithTolerance: tol must be finite and > 0"
	panicSweepsInvalid    = "linalg: WithMaxSweeps: sweeps must be > 0"
)

// Option configures a Jacobi solver.
type Option func(*Options)

// Options is the resolved Jacobi configuration.
type Options struct {
	tol    float64
	sweeps int
}

// WithTolerance sets the convergence threshold. Panics on non-positive or
// non-finite values.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxSweeps sets the sweep budget. Panics when sweeps <= 0.
func WithMaxSweeps(sweeps int) Option {
	if sweeps <= 0 {
		panic(panicSweepsInvalid)
	}

	return func(o *Options) { o.sweeps = sweeps }
}

func gatherOptions(opts ...Option) Options {
	o := Options{tol: DefaultJacobiTolerance, sweeps: DefaultJacobiMaxSweeps}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
