// SPDX-License-Identifier: MIT

package hamiltonian

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/linalg"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Part is the Hamiltonian restricted to one block.
type Part struct {
	block   states.BlockID
	basis   []states.State
	values  []float64
	vectors *mat.Dense
}

// Block returns the block id.
func (p *Part) Block() states.BlockID { return p.block }

// Size returns the block dimension.
func (p *Part) Size() int { return len(p.basis) }

// EigenValues returns a copy of the ascending eigenvalues.
func (p *Part) EigenValues() []float64 { return append([]float64(nil), p.values...) }

// EigenValue returns the i-th eigenvalue of the block.
func (p *Part) EigenValue(i int) float64 { return p.values[i] }

// EigenVectors returns the eigenvector matrix (columns). Callers must not
// modify it.
func (p *Part) EigenVectors() *mat.Dense { return p.vectors }

// MinEigenValue returns the lowest eigenvalue of the block.
func (p *Part) MinEigenValue() float64 { return p.values[0] }

// Hamiltonian owns one Part per block.
type Hamiltonian struct {
	tracker status.Tracker
	states  *states.Classification
	monos   []operators.Monomial
	parts   []*Part
	ground  float64
	opts    Options
}

// New binds the expression h to the classification s.
func New(s *states.Classification, h operators.Expression, opts ...Option) (*Hamiltonian, error) {
	if err := h.CheckRange(s.NumModes()); err != nil {
		return nil, fmt.Errorf("hamiltonian.New: %w", err)
	}

	return &Hamiltonian{states: s, monos: h.Terms(), opts: gatherOptions(opts...)}, nil
}

// Stage returns the lifecycle stage.
func (h *Hamiltonian) Stage() status.Stage { return h.tracker.Stage() }

// States returns the classification the Hamiltonian is bound to.
func (h *Hamiltonian) States() *states.Classification { return h.states }

// Prepare allocates one Part per block and records its basis. Calling it again is a no-op.
func (h *Hamiltonian) Prepare() error {
	if h.tracker.AtLeast(status.Prepared) {
		return nil
	}
	h.parts = make([]*Part, h.states.NumBlocks())
	for _, b := range h.states.Blocks() {
		basis, err := h.states.BlockStates(b)
		if err != nil {
			return fmt.Errorf("Hamiltonian.Prepare: %w", err)
		}
		h.parts[b] = &Part{block: b, basis: basis}
	}
	h.opts.log.WithField("blocks", len(h.parts)).Debug("hamiltonian: prepared")

	return h.tracker.Advance(status.Prepared)
}

type eigenResult struct {
	values  []float64
	vectors *mat.Dense
}

// Compute fills and diagonalizes every block on the ranks of d, then records
// the ground energy. Requires Prepared; a second call is a no-op.
func (h *Hamiltonian) Compute(ctx context.Context, d *distribute.Driver) error {
	if err := h.tracker.RequireAtLeast(status.Prepared, "Hamiltonian.Compute"); err != nil {
		return err
	}
	if h.tracker.AtLeast(status.Computed) {
		return nil
	}

	jobs := make([]distribute.Job, len(h.parts))
	for i, p := range h.parts {
		n := p.Size()
		jobs[i] = distribute.Job{ID: int(p.block), Complexity: n * n * n}
	}
	results, err := distribute.Gather(ctx, d, "hamiltonian", jobs,
		func(_ context.Context, _ int, job distribute.Job) (eigenResult, error) {
			return h.computePart(h.parts[job.ID])
		})
	if err != nil {
		return fmt.Errorf("Hamiltonian.Compute: %w", err)
	}

	h.ground = math.Inf(1)
	for i, r := range results {
		p := h.parts[jobs[i].ID]
		p.values, p.vectors = r.values, r.vectors
		h.ground = math.Min(h.ground, floats.Min(p.values))
	}
	h.opts.log.WithFields(logrus.Fields{"blocks": len(h.parts), "ground_energy": h.ground}).Info("hamiltonian: computed")

	return h.tracker.Advance(status.Computed)
}

// computePart builds and diagonalizes one block. It only reads shared state.
//
// Implementation:
//   - Stage 1: for every basis state (column) apply every monomial and
//     accumulate the amplitude at the row of the resulting state.
//   - Stage 2: symmetry check and densification.
//   - Stage 3: 1×1 shortcut or the configured solver.
func (h *Hamiltonian) computePart(p *Part) (eigenResult, error) {
	tr, err := linalg.NewTriplets(p.Size())
	if err != nil {
		return eigenResult{}, err
	}
	for col, s := range p.basis {
		for _, m := range h.monos {
			next, amp, ok := m.Apply(uint64(s))
			if !ok {
				continue
			}
			b, row, err := h.states.Locate(states.State(next))
			if err != nil {
				return eigenResult{}, err
			}
			if b != p.block {
				return eigenResult{}, fmt.Errorf("block %d: %s on state %d reaches block %d: %w", p.block, m, s, b, ErrLeavesBlock)
			}
			if err := tr.Add(row, col, amp); err != nil {
				return eigenResult{}, err
			}
		}
	}
	sym, err := tr.Symmetric(h.opts.eps)
	if err != nil {
		return eigenResult{}, fmt.Errorf("block %d: %w: %w", p.block, ErrNotHermitian, err)
	}
	if p.Size() == 1 {
		return eigenResult{values: []float64{sym.At(0, 0)}, vectors: mat.NewDense(1, 1, []float64{1})}, nil
	}
	values, vectors, err := h.opts.solver.Diagonalize(sym)
	if err != nil {
		return eigenResult{}, fmt.Errorf("block %d: %w", p.block, err)
	}
	// Solvers plugged in through WithSolver may return any order.
	if err := linalg.SortEigenpairs(values, vectors); err != nil {
		return eigenResult{}, fmt.Errorf("block %d: %w", p.block, err)
	}

	return eigenResult{values: values, vectors: vectors}, nil
}

// Part returns the computed part of block b.
func (h *Hamiltonian) Part(b states.BlockID) (*Part, error) {
	if err := h.tracker.RequireAtLeast(status.Computed, "Hamiltonian.Part"); err != nil {
		return nil, err
	}
	if !h.states.Valid(b) {
		return nil, fmt.Errorf("Hamiltonian.Part(%d): %w", b, states.ErrInvalidBlock)
	}

	return h.parts[b], nil
}

// GroundEnergy returns the minimum eigenvalue over all blocks.
func (h *Hamiltonian) GroundEnergy() (float64, error) {
	if err := h.tracker.RequireAtLeast(status.Computed, "Hamiltonian.GroundEnergy"); err != nil {
		return 0, err
	}

	return h.ground, nil
}

// EigenValue returns the eigenvalue labelled by basis state s: the
// eigenvalue with index offset(s) inside block(s).
func (h *Hamiltonian) EigenValue(s states.State) (float64, error) {
	if err := h.tracker.RequireAtLeast(status.Computed, "Hamiltonian.EigenValue"); err != nil {
		return 0, err
	}
	b, off, err := h.states.Locate(s)
	if err != nil {
		return 0, fmt.Errorf("Hamiltonian.EigenValue: %w", err)
	}

	return h.parts[b].values[off], nil
}

// Spectrum returns every eigenvalue of every block, sorted ascending.
func (h *Hamiltonian) Spectrum() ([]float64, error) {
	if err := h.tracker.RequireAtLeast(status.Computed, "Hamiltonian.Spectrum"); err != nil {
		return nil, err
	}
	out := make([]float64, 0, h.states.NumStates())
	for _, p := range h.parts {
		out = append(out, p.values...)
	}
	sort.Float64s(out)

	return out, nil
}
