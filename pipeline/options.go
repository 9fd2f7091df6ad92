// SPDX-License-Identifier: MIT

package pipeline

import (
	"math"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/greensfunction"
	"github.com/katalvlaran/exactdiag/linalg"
	"github.com/katalvlaran/exactdiag/logging"
	"github.com/katalvlaran/exactdiag/susceptibility"
	"github.com/katalvlaran/exactdiag/twoparticle"
	"github.com/sirupsen/logrus"
)

const panicTruncationInvalid = "pipeline: WithTruncation: tolerance must be finite and >= 0"

// Option configures a Session.
type Option func(*Options)

// Options is the resolved Session configuration.
type Options struct {
	driver   *distribute.Driver
	solver   linalg.Diagonalizer
	truncate bool
	tol      float64
	lazy     bool
	gf       []greensfunction.Option
	tp       []twoparticle.Option
	chi      []susceptibility.Option
	log      *logrus.Entry
}

// WithDriver runs every stage on d. The default is a single-rank driver.
func WithDriver(d *distribute.Driver) Option {
	return func(o *Options) { o.driver = d }
}

// WithSolver diagonalizes Hamiltonian blocks with s.
func WithSolver(s linalg.Diagonalizer) Option {
	return func(o *Options) { o.solver = s }
}

// WithTruncation drops density-matrix states with weight below tol before
// any correlator is assembled.
func WithTruncation(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicTruncationInvalid)
	}

	return func(o *Options) { o.truncate, o.tol = true, tol }
}

// WithLazyOperators rotates c and c† only when a correlator first needs
// them instead of during Run.
func WithLazyOperators() Option {
	return func(o *Options) { o.lazy = true }
}

// WithLogger routes diagnostics of the session and of every engine to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *Options) { o.log = log }
}

func gatherOptions(opts ...Option) Options {
	var o Options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	o.log = logging.OrDiscard(o.log)
	if o.driver == nil {
		o.driver = distribute.New(distribute.WithLogger(o.log))
	}
	if o.solver == nil {
		o.solver = linalg.EigenSym{}
	}

	return o
}

// WithGreensFunctionOptions forwards opts to every Green's function.
func WithGreensFunctionOptions(opts ...greensfunction.Option) Option {
	return func(o *Options) { o.gf = append(o.gf, opts...) }
}

// WithTwoParticleOptions forwards opts to every two-particle function.
func WithTwoParticleOptions(opts ...twoparticle.Option) Option {
	return func(o *Options) { o.tp = append(o.tp, opts...) }
}

// WithSusceptibilityOptions forwards opts to every susceptibility.
func WithSusceptibilityOptions(opts ...susceptibility.Option) Option {
	return func(o *Options) { o.chi = append(o.chi, opts...) }
}
