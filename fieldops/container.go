// SPDX-License-Identifier: MIT

package fieldops

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/status"
)

type pair struct {
	cdag, c *monomial.Operator
}

// Container maps mode indices to their operator pairs.
type Container struct {
	mu      sync.Mutex
	indices []int
	pairs   map[int]pair
	opts    Options
}

// New builds the operator pairs of indices over h. Duplicate indices are
// registered once.
func New(h *hamiltonian.Hamiltonian, indices []int, opts ...Option) (*Container, error) {
	fc := &Container{pairs: make(map[int]pair, len(indices)), opts: gatherOptions(opts...)}
	for _, i := range indices {
		if _, ok := fc.pairs[i]; ok {
			continue
		}
		cdag, err := monomial.Creation(h, i, fc.opts.operator...)
		if err != nil {
			return nil, fmt.Errorf("fieldops.New(index %d): %w", i, err)
		}
		c, err := monomial.Annihilation(h, i, fc.opts.operator...)
		if err != nil {
			return nil, fmt.Errorf("fieldops.New(index %d): %w", i, err)
		}
		fc.pairs[i] = pair{cdag: cdag, c: c}
		fc.indices = append(fc.indices, i)
	}
	sort.Ints(fc.indices)

	return fc, nil
}

// Indices returns the registered indices in ascending order.
func (fc *Container) Indices() []int { return append([]int(nil), fc.indices...) }

// PrepareAll prepares every registered operator.
func (fc *Container) PrepareAll() error {
	for _, i := range fc.indices {
		p := fc.pairs[i]
		if err := p.cdag.Prepare(); err != nil {
			return fmt.Errorf("Container.PrepareAll(index %d): %w", i, err)
		}
		if err := p.c.Prepare(); err != nil {
			return fmt.Errorf("Container.PrepareAll(index %d): %w", i, err)
		}
	}

	return nil
}

// ComputeAll rotates every creation operator on the ranks of d and fills the
// matching annihilation operator from it.
func (fc *Container) ComputeAll(ctx context.Context, d *distribute.Driver) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, i := range fc.indices {
		if err := fc.compute(ctx, d, i); err != nil {
			return err
		}
	}
	fc.opts.log.WithField("indices", len(fc.indices)).Debug("fieldops: computed")

	return nil
}

func (fc *Container) compute(ctx context.Context, d *distribute.Driver, i int) error {
	p := fc.pairs[i]
	if p.c.Stage() == status.Computed {
		return nil
	}
	if err := p.cdag.Prepare(); err != nil {
		return fmt.Errorf("Container.compute(index %d): %w", i, err)
	}
	if err := p.cdag.Compute(ctx, d); err != nil {
		return fmt.Errorf("Container.compute(index %d): %w", i, err)
	}
	if err := p.c.SetFromAdjoint(p.cdag); err != nil {
		return fmt.Errorf("Container.compute(index %d): %w", i, err)
	}

	return nil
}

func (fc *Container) lookup(ctx context.Context, i int, op string) (pair, error) {
	p, ok := fc.pairs[i]
	if !ok {
		return pair{}, fmt.Errorf("Container.%s(%d): %w", op, i, ErrUnknownIndex)
	}
	if fc.opts.lazy {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		if err := fc.compute(ctx, fc.opts.driver, i); err != nil {
			return pair{}, err
		}
	}

	return p, nil
}

// Creation returns c†_i.
func (fc *Container) Creation(i int) (*monomial.Operator, error) {
	return fc.CreationCtx(context.Background(), i)
}

// CreationCtx is Creation with a context bounding the lazy computation.
func (fc *Container) CreationCtx(ctx context.Context, i int) (*monomial.Operator, error) {
	p, err := fc.lookup(ctx, i, "Creation")
	if err != nil {
		return nil, err
	}

	return p.cdag, nil
}

// Annihilation returns c_i.
func (fc *Container) Annihilation(i int) (*monomial.Operator, error) {
	return fc.AnnihilationCtx(context.Background(), i)
}

// AnnihilationCtx is Annihilation with a context bounding the lazy
// computation.
func (fc *Container) AnnihilationCtx(ctx context.Context, i int) (*monomial.Operator, error) {
	p, err := fc.lookup(ctx, i, "Annihilation")
	if err != nil {
		return nil, err
	}

	return p.c, nil
}
