// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/fieldops"
	"github.com/katalvlaran/exactdiag/greensfunction"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/katalvlaran/exactdiag/susceptibility"
	"github.com/katalvlaran/exactdiag/twoparticle"
	"github.com/sirupsen/logrus"
)

// Model is the physical input of a run.
type Model struct {
	Indices     *index.Classification
	Hamiltonian operators.Expression
	// Charges defaults to states.SpinCharges(Indices).
	Charges states.Charges
}

type quad [4]int

type chiKey struct{ a, b string }

// Session is the state of one run.
type Session struct {
	id      uuid.UUID
	model   Model
	beta    float64
	opts    Options
	log     *logrus.Entry
	tracker status.Tracker

	states *states.Classification
	h      *hamiltonian.Hamiltonian
	dm     *densitymatrix.DensityMatrix
	fc     *fieldops.Container

	mu  sync.Mutex
	gf  map[greensfunction.Pair]*greensfunction.GreensFunction
	tp  map[quad]*twoparticle.TwoParticleGF
	chi map[chiKey]*susceptibility.Susceptibility
}

// New returns a Session for model at inverse temperature beta. Nothing is
// computed until Run.
func New(model Model, beta float64, opts ...Option) (*Session, error) {
	if model.Indices == nil || model.Indices.Len() == 0 {
		return nil, fmt.Errorf("pipeline.New: %w", ErrEmptyModel)
	}
	if !(beta > 0) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("pipeline.New(beta=%g): %w", beta, densitymatrix.ErrInvalidBeta)
	}
	if model.Charges.Modes() == 0 {
		model.Charges = states.SpinCharges(model.Indices)
	}
	o := gatherOptions(opts...)
	id := uuid.New()

	return &Session{
		id:    id,
		model: model,
		beta:  beta,
		opts:  o,
		log:   o.log.WithField("run_id", id.String()),
		gf:    make(map[greensfunction.Pair]*greensfunction.GreensFunction),
		tp:    make(map[quad]*twoparticle.TwoParticleGF),
		chi:   make(map[chiKey]*susceptibility.Susceptibility),
	}, nil
}

// RunID identifies the session in logs and reports.
func (s *Session) RunID() uuid.UUID { return s.id }

// Beta returns the inverse temperature.
func (s *Session) Beta() float64 { return s.beta }

// Model returns the model the session was built for.
func (s *Session) Model() Model { return s.model }

// Driver returns the distribution driver.
func (s *Session) Driver() *distribute.Driver { return s.opts.driver }

// Stage is Computed once Run has succeeded.
func (s *Session) Stage() status.Stage { return s.tracker.Stage() }

// Run executes every stage up to the field operators. Calling Run again
// after success is a no-op.
func (s *Session) Run(ctx context.Context) error {
	if s.tracker.AtLeast(status.Computed) {
		return nil
	}
	d := s.opts.driver
	log := s.log.WithField("workers", d.Workers())
	log.WithField("modes", s.model.Indices.Len()).Info("pipeline: run started")

	c, err := states.Classify(s.model.Hamiltonian, s.model.Indices.Len(), s.model.Charges, states.WithLogger(s.log))
	if err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	h, err := hamiltonian.New(c, s.model.Hamiltonian, hamiltonian.WithSolver(s.opts.solver), hamiltonian.WithLogger(s.log))
	if err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if err := h.Prepare(); err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if err := h.Compute(ctx, d); err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	e0, _ := h.GroundEnergy()
	log.WithFields(logrus.Fields{"blocks": c.NumBlocks(), "ground_energy": e0}).Info("pipeline: hamiltonian diagonalized")

	dm, err := densitymatrix.New(h, s.beta, densitymatrix.WithLogger(s.log))
	if err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if err := dm.Prepare(); err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if err := dm.Compute(ctx, d); err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if s.opts.truncate {
		if err := dm.TruncateBlocks(s.opts.tol, true); err != nil {
			return fmt.Errorf("Session.Run: %w", err)
		}
	}

	all := make([]int, s.model.Indices.Len())
	for i := range all {
		all[i] = i
	}
	fopts := []fieldops.Option{fieldops.WithLogger(s.log)}
	if s.opts.lazy {
		fopts = append(fopts, fieldops.WithLazy(d))
	}
	fc, err := fieldops.New(h, all, fopts...)
	if err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if err := fc.PrepareAll(); err != nil {
		return fmt.Errorf("Session.Run: %w", err)
	}
	if !s.opts.lazy {
		if err := fc.ComputeAll(ctx, d); err != nil {
			return fmt.Errorf("Session.Run: %w", err)
		}
	}

	s.states, s.h, s.dm, s.fc = c, h, dm, fc
	log.Info("pipeline: run finished")

	return s.tracker.Advance(status.Computed)
}

func (s *Session) require(op string) error {
	if !s.tracker.AtLeast(status.Computed) {
		return fmt.Errorf("Session.%s: %w", op, ErrNotRun)
	}

	return nil
}

// States returns the state classification.
func (s *Session) States() (*states.Classification, error) {
	if err := s.require("States"); err != nil {
		return nil, err
	}

	return s.states, nil
}

// Hamiltonian returns the diagonalized Hamiltonian.
func (s *Session) Hamiltonian() (*hamiltonian.Hamiltonian, error) {
	if err := s.require("Hamiltonian"); err != nil {
		return nil, err
	}

	return s.h, nil
}

// DensityMatrix returns the (possibly truncated) density matrix.
func (s *Session) DensityMatrix() (*densitymatrix.DensityMatrix, error) {
	if err := s.require("DensityMatrix"); err != nil {
		return nil, err
	}

	return s.dm, nil
}

// Operators returns the field operator container.
func (s *Session) Operators() (*fieldops.Container, error) {
	if err := s.require("Operators"); err != nil {
		return nil, err
	}

	return s.fc, nil
}

// GreensFunction returns the computed G_ij = -<T c_i c†_j>.
func (s *Session) GreensFunction(ctx context.Context, i, j int) (*greensfunction.GreensFunction, error) {
	if err := s.require("GreensFunction"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := greensfunction.Pair{I: i, J: j}
	if g, ok := s.gf[key]; ok {
		return g, nil
	}
	c, err := s.fc.AnnihilationCtx(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("Session.GreensFunction: %w", err)
	}
	cdag, err := s.fc.CreationCtx(ctx, j)
	if err != nil {
		return nil, fmt.Errorf("Session.GreensFunction: %w", err)
	}
	g, err := greensfunction.New(c, cdag, s.dm, append([]greensfunction.Option{greensfunction.WithLogger(s.log)}, s.opts.gf...)...)
	if err != nil {
		return nil, fmt.Errorf("Session.GreensFunction: %w", err)
	}
	if err := g.Prepare(); err != nil {
		return nil, fmt.Errorf("Session.GreensFunction: %w", err)
	}
	if err := g.Compute(ctx, s.opts.driver); err != nil {
		return nil, fmt.Errorf("Session.GreensFunction: %w", err)
	}
	s.gf[key] = g

	return g, nil
}

// TwoParticle returns the computed χ = <T c_i1 c_i2 c†_i3 c†_i4>.
func (s *Session) TwoParticle(ctx context.Context, i1, i2, i3, i4 int) (*twoparticle.TwoParticleGF, error) {
	if err := s.require("TwoParticle"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := quad{i1, i2, i3, i4}
	if g, ok := s.tp[key]; ok {
		return g, nil
	}
	var ops [4]*monomial.Operator
	var err error
	if ops[0], err = s.fc.AnnihilationCtx(ctx, i1); err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	if ops[1], err = s.fc.AnnihilationCtx(ctx, i2); err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	if ops[2], err = s.fc.CreationCtx(ctx, i3); err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	if ops[3], err = s.fc.CreationCtx(ctx, i4); err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	g, err := twoparticle.New(ops[0], ops[1], ops[2], ops[3], s.dm, append([]twoparticle.Option{twoparticle.WithLogger(s.log)}, s.opts.tp...)...)
	if err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	if err := g.Prepare(); err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	if err := g.Compute(ctx, s.opts.driver); err != nil {
		return nil, fmt.Errorf("Session.TwoParticle: %w", err)
	}
	s.tp[key] = g

	return g, nil
}

func (s *Session) operator(ctx context.Context, e operators.Expression) (*monomial.Operator, error) {
	op, err := monomial.New(s.h, e, monomial.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	if err := op.Prepare(); err != nil {
		return nil, err
	}
	if err := op.Compute(ctx, s.opts.driver); err != nil {
		return nil, err
	}

	return op, nil
}

// Susceptibility returns the computed <T A(τ) B> for single-monomial
// expressions a and b, typically c†_i c_j.
func (s *Session) Susceptibility(ctx context.Context, a, b operators.Expression) (*susceptibility.Susceptibility, error) {
	if err := s.require("Susceptibility"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := chiKey{a: a.String(), b: b.String()}
	if x, ok := s.chi[key]; ok {
		return x, nil
	}
	oa, err := s.operator(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("Session.Susceptibility: %w", err)
	}
	ob, err := s.operator(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("Session.Susceptibility: %w", err)
	}
	x, err := susceptibility.New(oa, ob, s.dm, append([]susceptibility.Option{susceptibility.WithLogger(s.log)}, s.opts.chi...)...)
	if err != nil {
		return nil, fmt.Errorf("Session.Susceptibility: %w", err)
	}
	if err := x.Prepare(); err != nil {
		return nil, fmt.Errorf("Session.Susceptibility: %w", err)
	}
	if err := x.Compute(ctx, s.opts.driver); err != nil {
		return nil, fmt.Errorf("Session.Susceptibility: %w", err)
	}
	s.chi[key] = x

	return x, nil
}

// Average returns the thermal average of the single-monomial expression e.
func (s *Session) Average(ctx context.Context, e operators.Expression) (float64, error) {
	if err := s.require("Average"); err != nil {
		return 0, err
	}
	op, err := s.operator(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("Session.Average: %w", err)
	}
	v, err := susceptibility.EnsembleAverage(op, s.dm)
	if err != nil {
		return 0, fmt.Errorf("Session.Average: %w", err)
	}

	return v, nil
}
