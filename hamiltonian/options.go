// SPDX-License-Identifier: MIT

package hamiltonian

import (
	"math"

	"github.com/katalvlaran/exactdiag/linalg"
	"github.com/katalvlaran/exactdiag/logging"
	"github.com/sirupsen/logrus"
)

const panicSymmetryEpsInvalid = "hamiltonian: WithSymmetryEps: eps must be finite and >= 0"

// Option configures a Hamiltonian.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	solver linalg.Diagonalizer
	eps    float64
	log    *logrus.Entry
}

// WithSolver replaces the default gonum-backed eigensolver.
func WithSolver(s linalg.Diagonalizer) Option {
	return func(o *Options) { o.solver = s }
}

// WithSymmetryEps sets the asymmetry tolerance of block matrices.
func WithSymmetryEps(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicSymmetryEpsInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithLogger routes diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	o := Options{solver: linalg.EigenSym{}, eps: linalg.DefaultSymmetryEps}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.solver == nil {
		o.solver = linalg.EigenSym{}
	}
	o.log = logging.OrDiscard(o.log)

	return o
}
