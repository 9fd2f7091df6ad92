// SPDX-License-Identifier: MIT

package linalg_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/exactdiag/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriplets_AccumulateAndSymmetric(t *testing.T) {
	tr, err := linalg.NewTriplets(3)
	require.NoError(t, err)
	require.NoError(t, tr.Add(0, 0, 1))
	require.NoError(t, tr.Add(0, 0, 0.5))
	require.NoError(t, tr.Add(0, 2, -1))
	require.NoError(t, tr.Add(2, 0, -1))
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 3, tr.Size())

	s, err := tr.Symmetric(linalg.DefaultSymmetryEps)
	require.NoError(t, err)
	assert.Equal(t, 1.5, s.At(0, 0))
	assert.Equal(t, -1.0, s.At(2, 0))
	assert.Equal(t, 0.0, s.At(1, 1))

	entries := tr.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, linalg.Entry{Row: 0, Col: 0, Value: 1.5}, entries[0])
	assert.Equal(t, linalg.Entry{Row: 2, Col: 0, Value: -1}, entries[2])

	d := tr.Dense()
	assert.Equal(t, -1.0, d.At(0, 2))
}

func TestTriplets_Errors(t *testing.T) {
	_, err := linalg.NewTriplets(0)
	assert.ErrorIs(t, err, linalg.ErrEmpty)

	tr, err := linalg.NewTriplets(2)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Add(2, 0, 1), linalg.ErrOutOfRange)
	assert.ErrorIs(t, tr.Add(0, 0, math.NaN()), linalg.ErrNaNInf)

	require.NoError(t, tr.Add(1, 0, 1))
	_, err = tr.Symmetric(1e-12)
	assert.ErrorIs(t, err, linalg.ErrAsymmetry)

	require.NoError(t, tr.Add(0, 1, 0.5))
	_, err = tr.Symmetric(1e-12)
	assert.ErrorIs(t, err, linalg.ErrAsymmetry)
}
