// SPDX-License-Identifier: MIT

package states

import (
	"github.com/katalvlaran/exactdiag/logging"
	"github.com/sirupsen/logrus"
)

// MaxModes bounds the number of modes whose Fock space Classify enumerates.
const MaxModes = 24

// Option configures Classify.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	log *logrus.Entry
}

// WithLogger routes classification diagnostics to log.
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

	return o
}
