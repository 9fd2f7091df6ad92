// SPDX-License-Identifier: MIT

package distribute

import (
	"github.com/katalvlaran/exactdiag/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// DefaultWorkers is the worker count of a Driver built without WithWorkers.
const DefaultWorkers = 1

const panicWorkersInvalid = "distribute: WithWorkers: n must be >= 1"

// Option configures a Driver.
type Option func(*Options)

// Options is the resolved Driver configuration.
type Options struct {
	workers  int
	log      *logrus.Entry
	registry *prometheus.Registry
}

// WithWorkers sets the number of ranks. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithLogger routes stage diagnostics to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

// WithRegistry records metrics in reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *Options) { o.registry = reg }
}

func gatherOptions(opts ...Option) Options {
	o := Options{workers: DefaultWorkers}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	return o
}
