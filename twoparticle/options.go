// SPDX-License-Identifier: MIT

package twoparticle

import (
	"math"

	"github.com/katalvlaran/exactdiag/logging"
	"github.com/sirupsen/logrus"
)

// Default tolerances.
const (
	// ReduceResonanceTolerance is the energy difference treated as zero. It
	// also orders and merges terms and selects the Kronecker branch of
	// resonant terms.
	ReduceResonanceTolerance = 1e-8
	// CoefficientTolerance is the smallest coefficient kept in a term.
	CoefficientTolerance = 1e-16
	// MultiTermCoefficientTolerance is the smallest product of four matrix
	// elements expanded into terms.
	MultiTermCoefficientTolerance = 1e-5
)

const panicToleranceInvalid = "twoparticle: tolerance must be finite and >= 0"

// Option configures a TwoParticleGF.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	resonance float64
	coeff     float64
	multiTerm float64
	log       *logrus.Entry
}

func checkTol(v float64) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		panic(panicToleranceInvalid)
	}
}

// WithReduceResonanceTolerance overrides ReduceResonanceTolerance.
func WithReduceResonanceTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.resonance = tol }
}

// WithCoefficientTolerance overrides CoefficientTolerance.
func WithCoefficientTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.coeff = tol }
}

// WithMultiTermCoefficientTolerance overrides MultiTermCoefficientTolerance.
func WithMultiTermCoefficientTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.multiTerm = tol }
}

// WithLogger routes diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		resonance: ReduceResonanceTolerance,
		coeff:     CoefficientTolerance,
		multiTerm: MultiTermCoefficientTolerance,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)

	return o
}
