// SPDX-License-Identifier: MIT

package operators_test

import (
	"testing"

	"github.com/katalvlaran/exactdiag/operators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_CreationAnnihilation(t *testing.T) {
	cases := []struct {
		name  string
		expr  operators.Expression
		in    uint64
		out   uint64
		amp   float64
		alive bool
	}{
		{"create on empty", operators.Cdag(0), 0b00, 0b01, 1, true},
		{"create on occupied", operators.Cdag(0), 0b01, 0, 0, false},
		{"annihilate empty", operators.C(1), 0b01, 0, 0, false},
		{"sign from lower mode", operators.Cdag(1), 0b01, 0b11, -1, true},
		{"no sign from higher mode", operators.Cdag(0), 0b10, 0b11, 1, true},
		{"annihilate with sign", operators.C(2), 0b111, 0b011, 1, true},
		{"number operator", operators.N(1), 0b10, 0b10, 1, true},
		{"number operator empty", operators.N(1), 0b01, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := tc.expr.Single()
			require.NoError(t, err)
			out, amp, ok := m.Apply(tc.in)
			assert.Equal(t, tc.alive, ok)
			if ok {
				assert.Equal(t, tc.out, out)
				assert.Equal(t, tc.amp, amp)
			}
		})
	}
}

func TestApply_Anticommutation(t *testing.T) {
	// c†0 c†1 |0> = - c†1 c†0 |0>
	a, err := operators.Cdag(0).Mul(operators.Cdag(1)).Single()
	require.NoError(t, err)
	b, err := operators.Cdag(1).Mul(operators.Cdag(0)).Single()
	require.NoError(t, err)

	sa, ampA, okA := a.Apply(0)
	sb, ampB, okB := b.Apply(0)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, sa, sb)
	assert.Equal(t, -ampA, ampB)
}

func TestExpression_MergeAndDrop(t *testing.T) {
	e := operators.N(0).Scale(2).Add(operators.N(0).Scale(3))
	require.Equal(t, 1, e.Len())
	assert.Equal(t, 5.0, e.Terms()[0].Coeff)

	zero := operators.N(0).Sub(operators.N(0))
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0", zero.String())
}

func TestExpression_AdjointAndHC(t *testing.T) {
	hop := operators.Cdag(0).Mul(operators.C(1)).Scale(-1)
	adj := hop.Adjoint()
	m, err := adj.Single()
	require.NoError(t, err)
	assert.Equal(t, []operators.Elementary{{Dagger: true, Index: 1}, {Index: 0}}, m.Ops)
	assert.Equal(t, -1.0, m.Coeff)

	full := hop.PlusHC()
	assert.Equal(t, 2, full.Len())
	assert.Equal(t, full.String(), full.Adjoint().Adjoint().String())
}

func TestExpression_SingleRejectsSums(t *testing.T) {
	_, err := operators.C(0).Add(operators.C(1)).Single()
	assert.ErrorIs(t, err, operators.ErrUnsupportedExpression)

	_, err = operators.Expression{}.Single()
	assert.ErrorIs(t, err, operators.ErrUnsupportedExpression)
}

func TestExpression_CheckRange(t *testing.T) {
	e := operators.Cdag(3).Mul(operators.C(0))
	assert.NoError(t, e.CheckRange(4))
	assert.ErrorIs(t, e.CheckRange(3), operators.ErrIndexRange)

	m, err := e.Single()
	require.NoError(t, err)
	assert.Equal(t, 3, m.MaxIndex())
	assert.Equal(t, -1, operators.Constant(2).Terms()[0].MaxIndex())
}

func TestExpression_ConstantActsAsIdentity(t *testing.T) {
	m, err := operators.Constant(0.5).Single()
	require.NoError(t, err)
	s, amp, ok := m.Apply(0b101)
	assert.True(t, ok)
	assert.Equal(t, uint64(0b101), s)
	assert.Equal(t, 0.5, amp)
}
