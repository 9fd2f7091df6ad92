// SPDX-License-Identifier: MIT

package distribute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/exactdiag/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

type metrics struct {
	jobs    *prometheus.CounterVec
	seconds *prometheus.HistogramVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exactdiag",
			Name:      "jobs_total",
			Help:      "Jobs completed per compute stage.",
		}, []string{"stage"}),
		seconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "exactdiag",
			Name:      "job_seconds",
			Help:      "Wall time of single jobs per compute stage.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"stage"}),
	}
	// A shared registry may already hold the collectors of another Driver.
	for _, c := range []prometheus.Collector{m.jobs, m.seconds} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				switch existing := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					m.jobs = existing
				case *prometheus.HistogramVec:
					m.seconds = existing
				}
			}
		}
	}

	return m
}

// Driver executes stages over a fixed number of ranks.
// A nil *Driver behaves like New() (one rank).
type Driver struct {
	workers  int
	log      *logrus.Entry
	registry *prometheus.Registry
	metrics  *metrics
}

// New returns a Driver configured by opts.
func New(opts ...Option) *Driver {
	o := gatherOptions(opts...)

	return &Driver{
		workers:  o.workers,
		log:      o.log,
		registry: o.registry,
		metrics:  newMetrics(o.registry),
	}
}

// OrDefault returns d, or a single-rank Driver when d is nil.
func OrDefault(d *Driver) *Driver {
	if d == nil {
		return New()
	}

	return d
}

// Workers returns the number of ranks.
func (d *Driver) Workers() int {
	if d == nil {
		return 1
	}

	return d.workers
}

// Registry returns the prometheus registry holding the driver metrics, or nil
// for a nil Driver.
func (d *Driver) Registry() *prometheus.Registry {
	if d == nil {
		return nil
	}

	return d.registry
}

// Logger returns the driver's log entry.
func (d *Driver) Logger() *logrus.Entry {
	if d == nil {
		return logging.Discard()
	}

	return d.log
}

// Run partitions jobs and executes fn for each of them on its owning rank.
// It returns after all ranks finished. On the first error the stage context
// is cancelled and the error, wrapped with ErrWorkerFailed, is returned.
func (d *Driver) Run(ctx context.Context, stage string, jobs []Job, fn func(ctx context.Context, rank int, job Job) error) (Assignment, error) {
	d = OrDefault(d)
	a, err := Partition(jobs, d.workers)
	if err != nil {
		return Assignment{}, fmt.Errorf("Driver.Run(%s): %w", stage, err)
	}
	log := d.log.WithFields(logrus.Fields{"stage": stage, "jobs": len(jobs), "workers": d.workers})
	log.WithField("load", a.Load).Debug("distribute: stage partitioned")

	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < d.workers; rank++ {
		rank, mine := rank, a.PerWorker[rank]
		g.Go(func() error {
			for _, job := range mine {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				if err := fn(gctx, rank, job); err != nil {
					return fmt.Errorf("%s job %d on rank %d: %w: %w", stage, job.ID, rank, ErrWorkerFailed, err)
				}
				d.metrics.jobs.WithLabelValues(stage).Inc()
				d.metrics.seconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("distribute: stage aborted")
		return a, err
	}
	log.Debug("distribute: stage done")

	return a, nil
}

// Gather runs fn like Run and returns the results in the order of jobs.
// Each rank writes only its own buffer; buffers are read after the barrier.
func Gather[R any](ctx context.Context, d *Driver, stage string, jobs []Job, fn func(ctx context.Context, rank int, job Job) (R, error)) ([]R, error) {
	d = OrDefault(d)
	local := make([]map[int]R, d.workers)
	for r := range local {
		local[r] = make(map[int]R)
	}
	a, err := d.Run(ctx, stage, jobs, func(ctx context.Context, rank int, job Job) error {
		res, err := fn(ctx, rank, job)
		if err != nil {
			return err
		}
		local[rank][job.ID] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]R, len(jobs))
	for i, job := range jobs {
		out[i] = local[a.Owner[job.ID]][job.ID]
	}

	return out, nil
}

// AllReduceSum sums values in slice order. Callers index values by job, so
// the result does not depend on which rank produced which value.
func AllReduceSum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	return floats.Sum(values)
}
