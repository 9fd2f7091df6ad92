// SPDX-License-Identifier: MIT

package index_test

import (
	"testing"

	"github.com/katalvlaran/exactdiag/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SortsDeterministically(t *testing.T) {
	ix, err := index.New(
		index.Info{Site: "B", Orbital: 0, Spin: index.Up},
		index.Info{Site: "A", Orbital: 0, Spin: index.Up},
		index.Info{Site: "B", Orbital: 0, Spin: index.Down},
		index.Info{Site: "A", Orbital: 0, Spin: index.Down},
	)
	require.NoError(t, err)
	require.Equal(t, 4, ix.Len())

	want := []index.Info{
		{Site: "A", Spin: index.Down},
		{Site: "A", Spin: index.Up},
		{Site: "B", Spin: index.Down},
		{Site: "B", Spin: index.Up},
	}
	assert.Equal(t, want, ix.Infos())

	for i, info := range want {
		got, err := ix.Index(info)
		require.NoError(t, err)
		assert.Equal(t, i, got)
		back, err := ix.Info(i)
		require.NoError(t, err)
		assert.Equal(t, info, back)
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := index.New()
	assert.ErrorIs(t, err, index.ErrEmpty)

	dup := index.Info{Site: "A"}
	_, err = index.New(dup, dup)
	assert.ErrorIs(t, err, index.ErrDuplicateIndex)

	many := make([]index.Info, index.MaxIndices+1)
	for i := range many {
		many[i] = index.Info{Site: "S", Orbital: i}
	}
	_, err = index.New(many...)
	assert.ErrorIs(t, err, index.ErrTooManyIndices)
}

func TestLookup_Unknown(t *testing.T) {
	ix, err := index.ForSites(map[string]int{"A": 2})
	require.NoError(t, err)
	assert.Equal(t, 4, ix.Len())
	assert.Equal(t, 2, ix.Orbitals("A"))
	assert.Equal(t, 0, ix.Orbitals("Z"))

	_, err = ix.Lookup("A", 2, index.Up)
	assert.ErrorIs(t, err, index.ErrUnknownIndex)
	_, err = ix.Info(-1)
	assert.ErrorIs(t, err, index.ErrUnknownIndex)
	_, err = ix.Info(4)
	assert.ErrorIs(t, err, index.ErrUnknownIndex)

	i, err := ix.Lookup("A", 1, index.Down)
	require.NoError(t, err)
	assert.Equal(t, 2, i)
}

func TestInfo_String(t *testing.T) {
	assert.Equal(t, "A:0:up", index.Info{Site: "A", Spin: index.Up}.String())
	assert.Equal(t, "B:1:dn", index.Info{Site: "B", Orbital: 1}.String())
}
