// SPDX-License-Identifier: MIT

package monomial

import (
	"context"
	"fmt"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Operator is a monomial rotated into the eigenbases of a Hamiltonian.
type Operator struct {
	tracker status.Tracker
	h       *hamiltonian.Hamiltonian
	mono    operators.Monomial
	shift   states.Label
	blocks  Bimap
	parts   map[states.BlockID]*Part // keyed by right block
	opts    Options
}

// New binds the single-monomial expression expr to h. Sums of monomials are
// rejected with operators.ErrUnsupportedExpression.
func New(h *hamiltonian.Hamiltonian, expr operators.Expression, opts ...Option) (*Operator, error) {
	m, err := expr.Single()
	if err != nil {
		return nil, fmt.Errorf("monomial.New(%s): %w", expr, err)
	}
	c := h.States()
	if err := expr.CheckRange(c.NumModes()); err != nil {
		return nil, fmt.Errorf("monomial.New(%s): %w", expr, err)
	}

	return &Operator{h: h, mono: m, shift: c.Charges().Shift(m), opts: gatherOptions(opts...)}, nil
}

// Creation returns the operator c†_i.
func Creation(h *hamiltonian.Hamiltonian, i int, opts ...Option) (*Operator, error) {
	return New(h, operators.Cdag(i), opts...)
}

// Annihilation returns the operator c_i.
func Annihilation(h *hamiltonian.Hamiltonian, i int, opts ...Option) (*Operator, error) {
	return New(h, operators.C(i), opts...)
}

// Quadratic returns the operator c†_i c_j.
func Quadratic(h *hamiltonian.Hamiltonian, i, j int, opts ...Option) (*Operator, error) {
	return New(h, operators.Cdag(i).Mul(operators.C(j)), opts...)
}

// Hamiltonian returns the Hamiltonian whose eigenbases the operator uses.
func (o *Operator) Hamiltonian() *hamiltonian.Hamiltonian { return o.h }

// Monomial returns the defining monomial.
func (o *Operator) Monomial() operators.Monomial { return o.mono }

// Shift returns the charge the operator adds to a block label.
func (o *Operator) Shift() states.Label { return o.shift }

// Stage returns the lifecycle stage.
func (o *Operator) Stage() status.Stage { return o.tracker.Stage() }

// Prepare discovers the block connections. A right block is connected when
// its shifted label names a block and the monomial leaves at least one of its
// states non-zero.
func (o *Operator) Prepare() error {
	if o.tracker.AtLeast(status.Prepared) {
		return nil
	}
	c := o.h.States()
	for _, r := range c.Blocks() {
		l := c.Target(r, o.shift)
		if l == states.InvalidBlock {
			continue
		}
		basis, err := c.BlockStates(r)
		if err != nil {
			return fmt.Errorf("Operator.Prepare: %w", err)
		}
		hit := false
		for _, s := range basis {
			next, _, ok := o.mono.Apply(uint64(s))
			if !ok {
				continue
			}
			b, _, err := c.Locate(states.State(next))
			if err != nil {
				return fmt.Errorf("Operator.Prepare: %w", err)
			}
			if b != l {
				return fmt.Errorf("Operator.Prepare(%s): block %d reaches %d and %d: %w", o.mono, r, l, b, ErrInconsistentTarget)
			}
			hit = true
			break
		}
		if hit && !o.blocks.Insert(l, r) {
			return fmt.Errorf("Operator.Prepare(%s): pair (%d, %d) breaks the block bijection: %w", o.mono, l, r, ErrInconsistentTarget)
		}
	}
	o.opts.log.WithFields(logrus.Fields{"operator": o.mono.String(), "connections": o.blocks.Len()}).Debug("monomial: prepared")

	return o.tracker.Advance(status.Prepared)
}

// Compute rotates every connection on the ranks of d. The Hamiltonian must be
// computed.
func (o *Operator) Compute(ctx context.Context, d *distribute.Driver) error {
	if err := o.tracker.RequireAtLeast(status.Prepared, "Operator.Compute"); err != nil {
		return err
	}
	if o.tracker.AtLeast(status.Computed) {
		return nil
	}
	conns := o.blocks.Connections()
	c := o.h.States()
	jobs := make([]distribute.Job, len(conns))
	for i, cn := range conns {
		nl, _ := c.BlockSize(cn.Left)
		nr, _ := c.BlockSize(cn.Right)
		jobs[i] = distribute.Job{ID: i, Complexity: nl * nr * (nl + nr)}
	}
	parts, err := distribute.Gather(ctx, d, "operator", jobs,
		func(_ context.Context, _ int, job distribute.Job) (*Part, error) {
			return o.computePart(conns[job.ID])
		})
	if err != nil {
		return fmt.Errorf("Operator.Compute(%s): %w", o.mono, err)
	}
	o.parts = make(map[states.BlockID]*Part, len(parts))
	for _, p := range parts {
		o.parts[p.right] = p
	}

	return o.tracker.Advance(status.Computed)
}

func (o *Operator) computePart(cn Connection) (*Part, error) {
	c := o.h.States()
	hl, err := o.h.Part(cn.Left)
	if err != nil {
		return nil, err
	}
	hr, err := o.h.Part(cn.Right)
	if err != nil {
		return nil, err
	}
	basis, err := c.BlockStates(cn.Right)
	if err != nil {
		return nil, err
	}
	raw := mat.NewDense(hl.Size(), hr.Size(), nil)
	for col, s := range basis {
		next, amp, ok := o.mono.Apply(uint64(s))
		if !ok {
			continue
		}
		b, row, err := c.Locate(states.State(next))
		if err != nil {
			return nil, err
		}
		if b != cn.Left {
			return nil, fmt.Errorf("block %d reaches %d and %d: %w", cn.Right, cn.Left, b, ErrInconsistentTarget)
		}
		raw.Set(row, col, raw.At(row, col)+amp)
	}
	var tmp, rot mat.Dense
	tmp.Mul(hl.EigenVectors().T(), raw)
	rot.Mul(&tmp, hr.EigenVectors())

	return newPart(cn.Left, cn.Right, &rot, o.opts.tol), nil
}

// SetFromAdjoint fills o with the transposed parts of src, which must be
// computed and carry the Hermitian conjugate monomial.
func (o *Operator) SetFromAdjoint(src *Operator) error {
	if err := src.tracker.RequireAtLeast(status.Computed, "Operator.SetFromAdjoint"); err != nil {
		return err
	}
	if !operators.New(o.mono).Sub(operators.New(src.mono.Adjoint())).IsZero() {
		return fmt.Errorf("Operator.SetFromAdjoint(%s, %s): %w", o.mono, src.mono, ErrNotAdjoint)
	}
	if o.tracker.AtLeast(status.Computed) {
		return nil
	}
	o.blocks = src.blocks.Inverse()
	o.parts = make(map[states.BlockID]*Part, len(src.parts))
	for _, p := range src.parts {
		t := p.transpose()
		o.parts[t.right] = t
	}
	if err := o.tracker.Advance(status.Prepared); err != nil {
		return err
	}

	return o.tracker.Advance(status.Computed)
}

// Mapping returns the block connections. Callers must not modify it.
func (o *Operator) Mapping() (*Bimap, error) {
	if err := o.tracker.RequireAtLeast(status.Prepared, "Operator.Mapping"); err != nil {
		return nil, err
	}

	return &o.blocks, nil
}

// LeftIndex returns the block reached from right block r, or
// states.InvalidBlock when the operator vanishes on r.
func (o *Operator) LeftIndex(r states.BlockID) (states.BlockID, error) {
	if err := o.tracker.RequireAtLeast(status.Prepared, "Operator.LeftIndex"); err != nil {
		return states.InvalidBlock, err
	}

	return o.blocks.Left(r), nil
}

// RightIndex returns the block mapped onto left block l, or
// states.InvalidBlock.
func (o *Operator) RightIndex(l states.BlockID) (states.BlockID, error) {
	if err := o.tracker.RequireAtLeast(status.Prepared, "Operator.RightIndex"); err != nil {
		return states.InvalidBlock, err
	}

	return o.blocks.Right(l), nil
}

// PartFromRight returns the part whose right block is r.
func (o *Operator) PartFromRight(r states.BlockID) (*Part, error) {
	if err := o.tracker.RequireAtLeast(status.Computed, "Operator.PartFromRight"); err != nil {
		return nil, err
	}
	p, ok := o.parts[r]
	if !ok {
		return nil, fmt.Errorf("Operator.PartFromRight(%d): %w", r, ErrNoPart)
	}

	return p, nil
}

// PartFromLeft returns the part whose left block is l.
func (o *Operator) PartFromLeft(l states.BlockID) (*Part, error) {
	if err := o.tracker.RequireAtLeast(status.Computed, "Operator.PartFromLeft"); err != nil {
		return nil, err
	}
	r := o.blocks.Right(l)
	if r == states.InvalidBlock {
		return nil, fmt.Errorf("Operator.PartFromLeft(%d): %w", l, ErrNoPart)
	}

	return o.parts[r], nil
}

// Parts returns every part ordered by right block.
func (o *Operator) Parts() ([]*Part, error) {
	if err := o.tracker.RequireAtLeast(status.Computed, "Operator.Parts"); err != nil {
		return nil, err
	}
	conns := o.blocks.Connections()
	out := make([]*Part, len(conns))
	for i, cn := range conns {
		out[i] = o.parts[cn.Right]
	}

	return out, nil
}
