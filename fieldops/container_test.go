// SPDX-License-Identifier: MIT

package fieldops_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/exactdiag/fieldops"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func hubbardAtom(t *testing.T) *hamiltonian.Hamiltonian {
	t.Helper()
	ix, err := index.ForSites(map[string]int{"S": 1})
	require.NoError(t, err)
	h, err := lattice.CoulombS(ix, "S", 2, -1)
	require.NoError(t, err)
	c, err := states.Classify(h, ix.Len(), states.SpinCharges(ix))
	require.NoError(t, err)
	H, err := hamiltonian.New(c, h)
	require.NoError(t, err)
	require.NoError(t, H.Prepare())
	require.NoError(t, H.Compute(context.Background(), nil))

	return H
}

func TestContainer_ComputeAll(t *testing.T) {
	H := hubbardAtom(t)
	fc, err := fieldops.New(H, []int{1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, fc.Indices())

	require.NoError(t, fc.PrepareAll())
	require.NoError(t, fc.ComputeAll(context.Background(), nil))

	for _, i := range fc.Indices() {
		cdag, err := fc.Creation(i)
		require.NoError(t, err)
		c, err := fc.Annihilation(i)
		require.NoError(t, err)
		assert.Equal(t, status.Computed, cdag.Stage())
		assert.Equal(t, status.Computed, c.Stage())

		parts, err := cdag.Parts()
		require.NoError(t, err)
		for _, p := range parts {
			q, err := c.PartFromLeft(p.Right())
			require.NoError(t, err)
			var tr mat.Dense
			tr.CloneFrom(p.Dense().T())
			assert.True(t, mat.Equal(&tr, q.Dense()))
		}
	}

	_, err = fc.Creation(5)
	assert.ErrorIs(t, err, fieldops.ErrUnknownIndex)
}

func TestContainer_Lazy(t *testing.T) {
	H := hubbardAtom(t)
	fc, err := fieldops.New(H, []int{0, 1}, fieldops.WithLazy(nil))
	require.NoError(t, err)

	c, err := fc.Annihilation(1)
	require.NoError(t, err)
	assert.Equal(t, status.Computed, c.Stage())

	cdag, err := fc.Creation(1)
	require.NoError(t, err)
	assert.Equal(t, status.Computed, cdag.Stage())

	_, err = fc.Annihilation(2)
	assert.ErrorIs(t, err, fieldops.ErrUnknownIndex)
}

func TestContainer_BadIndex(t *testing.T) {
	H := hubbardAtom(t)
	_, err := fieldops.New(H, []int{0, 4})
	assert.Error(t, err)
}

func TestContainer_LazyHonoursContext(t *testing.T) {
	H := hubbardAtom(t)
	fc, err := fieldops.New(H, []int{0, 1}, fieldops.WithLazy(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fc.CreationCtx(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = fc.AnnihilationCtx(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)

	c, err := fc.AnnihilationCtx(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, status.Computed, c.Stage())
}
