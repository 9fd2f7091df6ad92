// SPDX-License-Identifier: MIT

package greensfunction

import (
	"math"

	"github.com/katalvlaran/exactdiag/logging"
	"github.com/sirupsen/logrus"
)

// Default tolerances of term assembly.
const (
	// PoleTolerance is the distance under which two poles are merged.
	PoleTolerance = 1e-8
	// ResidueTolerance drops terms with |R| at or below it at assembly, and
	// scaled by the term count after a merge.
	ResidueTolerance = 1e-8
)

const panicToleranceInvalid = "greensfunction: tolerance must be finite and >= 0"

// Option configures a GreensFunction.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	poleTol    float64
	residueTol float64
	log        *logrus.Entry
}

func checkTol(v float64) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		panic(panicToleranceInvalid)
	}
}

// WithPoleTolerance sets the pole merging distance.
func WithPoleTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.poleTol = tol }
}

// WithResidueTolerance sets the residue cutoff.
func WithResidueTolerance(tol float64) Option {
	checkTol(tol)

	return func(o *Options) { o.residueTol = tol }
}

// WithLogger routes diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	o := Options{poleTol: PoleTolerance, residueTol: ResidueTolerance}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)

	return o
}
