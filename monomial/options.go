// SPDX-License-Identifier: MIT

package monomial

import (
	"math"

	"github.com/katalvlaran/exactdiag/logging"
	"github.com/sirupsen/logrus"
)

// MatrixElementTolerance is the default pruning threshold of rotated
// matrix elements.
const MatrixElementTolerance = 1e-8

const panicToleranceInvalid = "monomial: WithTolerance: tol must be finite and >= 0"

// Option configures an Operator.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	tol float64
	log *logrus.Entry
}

// WithTolerance sets the pruning threshold of rotated matrix elements.
func WithTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithLogger routes diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	o := Options{tol: MatrixElementTolerance}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)

	return o
}
