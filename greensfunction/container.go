// SPDX-License-Identifier: MIT

package greensfunction

import (
	"context"
	"fmt"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/fieldops"
)

// Pair selects G_ij = -<T c_i c†_j>.
type Pair struct {
	I, J int
}

// Container holds the Green's functions of a set of index pairs.
type Container struct {
	order []Pair
	elems map[Pair]*GreensFunction
}

// NewContainer builds one GreensFunction per distinct pair from the
// operators of fc.
func NewContainer(fc *fieldops.Container, dm *densitymatrix.DensityMatrix, pairs []Pair, opts ...Option) (*Container, error) {
	gc := &Container{elems: make(map[Pair]*GreensFunction, len(pairs))}
	for _, p := range pairs {
		if _, ok := gc.elems[p]; ok {
			continue
		}
		c, err := fc.Annihilation(p.I)
		if err != nil {
			return nil, fmt.Errorf("greensfunction.NewContainer: %w", err)
		}
		cdag, err := fc.Creation(p.J)
		if err != nil {
			return nil, fmt.Errorf("greensfunction.NewContainer: %w", err)
		}
		g, err := New(c, cdag, dm, opts...)
		if err != nil {
			return nil, err
		}
		gc.elems[p] = g
		gc.order = append(gc.order, p)
	}

	return gc, nil
}

// Pairs returns the registered pairs in registration order.
func (gc *Container) Pairs() []Pair { return append([]Pair(nil), gc.order...) }

// PrepareAll prepares every element.
func (gc *Container) PrepareAll() error {
	for _, p := range gc.order {
		if err := gc.elems[p].Prepare(); err != nil {
			return fmt.Errorf("Container.PrepareAll(%d,%d): %w", p.I, p.J, err)
		}
	}

	return nil
}

// ComputeAll computes every element on the ranks of d.
func (gc *Container) ComputeAll(ctx context.Context, d *distribute.Driver) error {
	for _, p := range gc.order {
		if err := gc.elems[p].Compute(ctx, d); err != nil {
			return fmt.Errorf("Container.ComputeAll(%d,%d): %w", p.I, p.J, err)
		}
	}

	return nil
}

// Get returns G_ij.
func (gc *Container) Get(i, j int) (*GreensFunction, error) {
	g, ok := gc.elems[Pair{I: i, J: j}]
	if !ok {
		return nil, fmt.Errorf("Container.Get(%d,%d): %w", i, j, ErrUnknownPair)
	}

	return g, nil
}
