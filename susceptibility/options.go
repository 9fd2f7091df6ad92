// SPDX-License-Identifier: MIT

package susceptibility

import (
	"math"

	"github.com/katalvlaran/exactdiag/logging"
	"github.com/sirupsen/logrus"
)

// Default tolerances.
const (
	// ResonanceTolerance is the pole magnitude treated as zero.
	ResonanceTolerance = 1e-8
	// ResidueTolerance drops terms with |R| at or below it.
	ResidueTolerance = 1e-8
)

const panicToleranceInvalid = "susceptibility: tolerance must be finite and >= 0"

// Option configures a Susceptibility.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	resonance float64
	residue   float64
	log       *logrus.Entry
}

func checkTol(v float64) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		panic(panicToleranceInvalid)
	}
}

// WithResonanceTolerance overrides ResonanceTolerance.
func WithResonanceTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.resonance = tol }
}

// WithResidueTolerance overrides ResidueTolerance.
func WithResidueTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.residue = tol }
}

// WithLogger routes diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	o := Options{resonance: ResonanceTolerance, residue: ResidueTolerance}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)

	return o
}
