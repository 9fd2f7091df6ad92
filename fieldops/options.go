// SPDX-License-Identifier: MIT

package fieldops

import (
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/logging"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/sirupsen/logrus"
)

// Option configures a Container.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	lazy     bool
	driver   *distribute.Driver
	operator []monomial.Option
	log      *logrus.Entry
}

// WithLazy makes lookups prepare and compute an index's pair on first use,
// distributing the work over d (nil means a single rank).
func WithLazy(d *distribute.Driver) Option {
	return func(o *Options) {
		o.lazy = true
		o.driver = d
	}
}

// WithOperatorOptions forwards opts to every operator the container builds.
func WithOperatorOptions(opts ...monomial.Option) Option {
	return func(o *Options) { o.operator = append(o.operator, opts...) }
}

// WithLogger routes diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	o := Options{}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)
	o.operator = append(o.operator, monomial.WithLogger(o.log))

	return o
}
