// SPDX-License-Identifier: MIT

package twoparticle

import (
	"context"
	"fmt"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/fieldops"
)

// Quadruple selects χ = <T c_I1 c_I2 c†_I3 c†_I4>.
type Quadruple struct {
	I1, I2, I3, I4 int
}

// Frequencies is one (z1, z2, z3) point.
type Frequencies [3]complex128

// Container holds the two-particle functions of a set of index quadruples.
type Container struct {
	order []Quadruple
	elems map[Quadruple]*TwoParticleGF
}

// NewContainer builds one TwoParticleGF per distinct quadruple from the
// operators of fc. opts apply to every element.
func NewContainer(fc *fieldops.Container, dm *densitymatrix.DensityMatrix, quads []Quadruple, opts ...Option) (*Container, error) {
	tc := &Container{elems: make(map[Quadruple]*TwoParticleGF, len(quads))}
	for _, q := range quads {
		if _, ok := tc.elems[q]; ok {
			continue
		}
		c1, err := fc.Annihilation(q.I1)
		if err != nil {
			return nil, fmt.Errorf("twoparticle.NewContainer: %w", err)
		}
		c2, err := fc.Annihilation(q.I2)
		if err != nil {
			return nil, fmt.Errorf("twoparticle.NewContainer: %w", err)
		}
		cx3, err := fc.Creation(q.I3)
		if err != nil {
			return nil, fmt.Errorf("twoparticle.NewContainer: %w", err)
		}
		cx4, err := fc.Creation(q.I4)
		if err != nil {
			return nil, fmt.Errorf("twoparticle.NewContainer: %w", err)
		}
		g, err := New(c1, c2, cx3, cx4, dm, opts...)
		if err != nil {
			return nil, err
		}
		tc.elems[q] = g
		tc.order = append(tc.order, q)
	}

	return tc, nil
}

// Quadruples returns the registered quadruples in registration order.
func (tc *Container) Quadruples() []Quadruple { return append([]Quadruple(nil), tc.order...) }

// PrepareAll prepares every element.
func (tc *Container) PrepareAll() error {
	for _, q := range tc.order {
		if err := tc.elems[q].Prepare(); err != nil {
			return fmt.Errorf("Container.PrepareAll(%v): %w", q, err)
		}
	}

	return nil
}

// ComputeAll computes every non-vanishing element on the ranks of d.
// Vanishing elements are marked computed without building terms.
func (tc *Container) ComputeAll(ctx context.Context, d *distribute.Driver) error {
	for _, q := range tc.order {
		if err := tc.elems[q].Compute(ctx, d); err != nil {
			return fmt.Errorf("Container.ComputeAll(%v): %w", q, err)
		}
	}

	return nil
}

// Get returns the element of q.
func (tc *Container) Get(i1, i2, i3, i4 int) (*TwoParticleGF, error) {
	q := Quadruple{I1: i1, I2: i2, I3: i3, I4: i4}
	g, ok := tc.elems[q]
	if !ok {
		return nil, fmt.Errorf("Container.Get(%v): %w", q, ErrUnknownQuadruple)
	}

	return g, nil
}

// Evaluate returns the values of every element on freqs, keyed by
// quadruple. All elements must be computed.
func (tc *Container) Evaluate(freqs []Frequencies) (map[Quadruple][]complex128, error) {
	out := make(map[Quadruple][]complex128, len(tc.order))
	for _, q := range tc.order {
		vals := make([]complex128, len(freqs))
		for i, f := range freqs {
			v, err := tc.elems[q].Value(f[0], f[1], f[2])
			if err != nil {
				return nil, fmt.Errorf("Container.Evaluate(%v): %w", q, err)
			}
			vals[i] = v
		}
		out[q] = vals
	}

	return out, nil
}
