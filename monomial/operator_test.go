// SPDX-License-Identifier: MIT

package monomial_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func dimer(t *testing.T) (*index.Classification, *hamiltonian.Hamiltonian) {
	t.Helper()
	ix, err := index.ForSites(map[string]int{"A": 1, "B": 1})
	require.NoError(t, err)
	a, err := lattice.CoulombS(ix, "A", 1, -0.5)
	require.NoError(t, err)
	b, err := lattice.CoulombS(ix, "B", 1, -0.5)
	require.NoError(t, err)
	hop, err := lattice.Hopping(ix, "A", "B", -1)
	require.NoError(t, err)
	h := a.Add(b).Add(hop)
	c, err := states.Classify(h, ix.Len(), states.SpinCharges(ix))
	require.NoError(t, err)
	H, err := hamiltonian.New(c, h)
	require.NoError(t, err)
	require.NoError(t, H.Prepare())
	require.NoError(t, H.Compute(context.Background(), nil))

	return ix, H
}

func computed(t *testing.T, o *monomial.Operator, workers int) {
	t.Helper()
	require.NoError(t, o.Prepare())
	require.NoError(t, o.Compute(context.Background(), distribute.New(distribute.WithWorkers(workers))))
}

func TestCreationIsTransposeOfAnnihilation(t *testing.T) {
	ix, H := dimer(t)
	for i := 0; i < ix.Len(); i++ {
		cdag, err := monomial.Creation(H, i)
		require.NoError(t, err)
		c, err := monomial.Annihilation(H, i)
		require.NoError(t, err)
		computed(t, cdag, 2)
		computed(t, c, 3)

		cdagParts, err := cdag.Parts()
		require.NoError(t, err)
		require.NotEmpty(t, cdagParts)
		for _, p := range cdagParts {
			// c† maps R -> L, so c maps L -> R.
			l, err := c.LeftIndex(p.Left())
			require.NoError(t, err)
			assert.Equal(t, p.Right(), l)

			q, err := c.PartFromRight(p.Left())
			require.NoError(t, err)
			var tr mat.Dense
			tr.CloneFrom(q.Dense().T())
			assert.True(t, mat.EqualApprox(p.Dense(), &tr, 1e-12), "mode %d blocks %d->%d", i, p.Right(), p.Left())
		}

		adj, err := monomial.Annihilation(H, i)
		require.NoError(t, err)
		require.NoError(t, adj.SetFromAdjoint(cdag))
		cParts, err := c.Parts()
		require.NoError(t, err)
		adjParts, err := adj.Parts()
		require.NoError(t, err)
		require.Len(t, adjParts, len(cParts))
		for k := range cParts {
			assert.Equal(t, cParts[k].Left(), adjParts[k].Left())
			assert.Equal(t, cParts[k].Right(), adjParts[k].Right())
			assert.True(t, mat.EqualApprox(cParts[k].Dense(), adjParts[k].Dense(), 1e-12))
			assert.Equal(t, cParts[k].NNZ(), adjParts[k].NNZ())
		}
	}
}

func TestOperator_ShiftsLabels(t *testing.T) {
	ix, H := dimer(t)
	up, err := ix.Lookup("A", 0, index.Up)
	require.NoError(t, err)
	cdag, err := monomial.Creation(H, up)
	require.NoError(t, err)
	assert.Equal(t, states.Label{1, 0}, cdag.Shift())
	require.NoError(t, cdag.Prepare())

	c := H.States()
	m, err := cdag.Mapping()
	require.NoError(t, err)
	// Every block with fewer than two up electrons gains one.
	assert.Equal(t, 6, m.Len())
	for _, cn := range m.Connections() {
		lr, err := c.Label(cn.Right)
		require.NoError(t, err)
		ll, err := c.Label(cn.Left)
		require.NoError(t, err)
		assert.Equal(t, lr.Add(states.Label{1, 0}), ll)
		assert.Equal(t, cn.Right, m.Right(cn.Left))
	}

	full := c.BlockOfLabel(states.Label{2, 0})
	l, err := cdag.LeftIndex(full)
	require.NoError(t, err)
	assert.Equal(t, states.InvalidBlock, l)
}

func TestQuadratic_Diagonal(t *testing.T) {
	ix, H := dimer(t)
	i, err := ix.Lookup("B", 0, index.Down)
	require.NoError(t, err)
	n, err := monomial.Quadratic(H, i, i)
	require.NoError(t, err)
	assert.True(t, n.Shift().IsZero())
	computed(t, n, 1)

	parts, err := n.Parts()
	require.NoError(t, err)
	for _, p := range parts {
		assert.Equal(t, p.Left(), p.Right())
		rows, cols := p.Dims()
		assert.Equal(t, rows, cols)
		for r := 0; r < rows; r++ {
			for c := r + 1; c < cols; c++ {
				assert.InDelta(t, p.At(r, c), p.At(c, r), 1e-12)
			}
		}
	}
}

func TestOperator_Errors(t *testing.T) {
	_, H := dimer(t)

	_, err := monomial.New(H, operators.C(0).Add(operators.C(1)))
	assert.ErrorIs(t, err, operators.ErrUnsupportedExpression)
	_, err = monomial.Creation(H, 7)
	assert.ErrorIs(t, err, operators.ErrIndexRange)

	o, err := monomial.Annihilation(H, 0)
	require.NoError(t, err)
	_, err = o.LeftIndex(0)
	assert.ErrorIs(t, err, status.ErrStatusMismatch)
	assert.ErrorIs(t, o.Compute(context.Background(), nil), status.ErrStatusMismatch)
	require.NoError(t, o.Prepare())
	_, err = o.PartFromRight(0)
	assert.ErrorIs(t, err, status.ErrStatusMismatch)
	require.NoError(t, o.Compute(context.Background(), nil))

	// Block 0 is the vacuum: c annihilates it.
	_, err = o.PartFromRight(0)
	assert.ErrorIs(t, err, monomial.ErrNoPart)

	other, err := monomial.Annihilation(H, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, other.SetFromAdjoint(o), monomial.ErrNotAdjoint)
}

func TestBimap(t *testing.T) {
	var m monomial.Bimap
	assert.Equal(t, states.InvalidBlock, m.Left(0))
	assert.True(t, m.Insert(1, 2))
	assert.False(t, m.Insert(1, 3))
	assert.False(t, m.Insert(4, 2))
	assert.True(t, m.Insert(3, 0))
	assert.Equal(t, states.BlockID(1), m.Left(2))
	assert.Equal(t, states.BlockID(2), m.Right(1))
	assert.Equal(t, []monomial.Connection{{Left: 3, Right: 0}, {Left: 1, Right: 2}}, m.Connections())

	inv := m.Inverse()
	assert.Equal(t, states.BlockID(2), inv.Left(1))
	assert.Equal(t, 2, inv.Len())
}
