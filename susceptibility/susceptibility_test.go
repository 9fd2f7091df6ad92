// SPDX-License-Identifier: MIT

package susceptibility_test

import (
	"context"
	"math"
	"testing"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/katalvlaran/exactdiag/susceptibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, ix *index.Classification, h operators.Expression, beta float64, d *distribute.Driver) *densitymatrix.DensityMatrix {
	t.Helper()
	ctx := context.Background()
	c, err := states.Classify(h, ix.Len(), states.SpinCharges(ix))
	require.NoError(t, err)
	H, err := hamiltonian.New(c, h)
	require.NoError(t, err)
	require.NoError(t, H.Prepare())
	require.NoError(t, H.Compute(ctx, d))
	dm, err := densitymatrix.New(H, beta)
	require.NoError(t, err)
	require.NoError(t, dm.Prepare())
	require.NoError(t, dm.Compute(ctx, d))

	return dm
}

func operator(t *testing.T, dm *densitymatrix.DensityMatrix, e operators.Expression, d *distribute.Driver) *monomial.Operator {
	t.Helper()
	op, err := monomial.New(dm.Hamiltonian(), e)
	require.NoError(t, err)
	require.NoError(t, op.Prepare())
	require.NoError(t, op.Compute(context.Background(), d))

	return op
}

func compute(t *testing.T, a, b *monomial.Operator, dm *densitymatrix.DensityMatrix, d *distribute.Driver) *susceptibility.Susceptibility {
	t.Helper()
	s, err := susceptibility.New(a, b, dm)
	require.NoError(t, err)
	require.NoError(t, s.Prepare())
	require.NoError(t, s.Compute(context.Background(), d))

	return s
}

func TestSingleSite_Density(t *testing.T) {
	const u, beta = 1.0, 2.0
	ix, err := index.ForSites(map[string]int{"S": 1})
	require.NoError(t, err)
	h, err := lattice.CoulombS(ix, "S", u, 0)
	require.NoError(t, err)
	dm := solve(t, ix, h, beta, nil)
	up, err := ix.Lookup("S", 0, index.Up)
	require.NoError(t, err)

	n := operator(t, dm, operators.N(up), nil)
	z := 3 + math.Exp(-beta*u)
	occ := (1 + math.Exp(-beta*u)) / z

	ave, err := susceptibility.EnsembleAverage(n, dm)
	require.NoError(t, err)
	assert.InDelta(t, occ, ave, 1e-12)

	s := compute(t, n, n, dm, nil)
	assert.False(t, s.IsVanishing())
	terms, err := s.Terms()
	require.NoError(t, err)
	assert.Empty(t, terms)
	zw, err := s.ZeroPoleWeight()
	require.NoError(t, err)
	assert.InDelta(t, occ, zw, 1e-12)

	v0, err := s.Matsubara(0)
	require.NoError(t, err)
	assert.InDelta(t, beta*occ, real(v0), 1e-12)
	v1, err := s.Matsubara(1)
	require.NoError(t, err)
	assert.Equal(t, complex128(0), v1)
	tau, err := s.Tau(0.3)
	require.NoError(t, err)
	assert.InDelta(t, occ, tau, 1e-12)

	s.SubtractDisconnected(ave, ave)
	v0, err = s.Matsubara(0)
	require.NoError(t, err)
	assert.InDelta(t, beta*(occ-occ*occ), real(v0), 1e-12)
	tau, err = s.Tau(0.3)
	require.NoError(t, err)
	assert.InDelta(t, occ-occ*occ, tau, 1e-12)
}

func dimer(t *testing.T) (*index.Classification, operators.Expression) {
	t.Helper()
	ix, err := index.ForSites(map[string]int{"A": 1, "B": 1})
	require.NoError(t, err)
	a, err := lattice.CoulombS(ix, "A", 2, -1)
	require.NoError(t, err)
	b, err := lattice.CoulombS(ix, "B", 2, -1)
	require.NoError(t, err)
	hop, err := lattice.Hopping(ix, "A", "B", -1)
	require.NoError(t, err)

	return ix, a.Add(b).Add(hop)
}

func TestDimer_SpinFlipEqualTime(t *testing.T) {
	ix, h := dimer(t)
	d := distribute.New(distribute.WithWorkers(2))
	dm := solve(t, ix, h, 5, d)
	up, err := ix.Lookup("A", 0, index.Up)
	require.NoError(t, err)
	dn, err := ix.Lookup("A", 0, index.Down)
	require.NoError(t, err)

	splus := operators.Cdag(up).Mul(operators.C(dn))
	sminus := operators.Cdag(dn).Mul(operators.C(up))
	a := operator(t, dm, splus, d)
	b := operator(t, dm, sminus, d)
	ab := operator(t, dm, splus.Mul(sminus), d)

	s := compute(t, a, b, dm, d)
	assert.False(t, s.IsVanishing())
	want, err := susceptibility.EnsembleAverage(ab, dm)
	require.NoError(t, err)
	assert.Greater(t, want, 0.0)

	// χ(0) = <S+ S->.
	got, err := s.Tau(0)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-6)

	// The static transverse response is real and positive.
	v0, err := s.Matsubara(0)
	require.NoError(t, err)
	assert.Greater(t, real(v0), 0.0)
	assert.InDelta(t, 0.0, imag(v0), 1e-12)

	// Consistency between workers.
	ref := compute(t, a, b, dm, nil)
	for n := 0; n < 4; n++ {
		x, err := s.Matsubara(n)
		require.NoError(t, err)
		y, err := ref.Matsubara(n)
		require.NoError(t, err)
		assert.InDelta(t, real(y), real(x), 1e-12, "n=%d", n)
		assert.InDelta(t, imag(y), imag(x), 1e-12, "n=%d", n)
	}
}

func TestVanishing(t *testing.T) {
	ix, h := dimer(t)
	dm := solve(t, ix, h, 1, nil)
	up, err := ix.Lookup("A", 0, index.Up)
	require.NoError(t, err)
	dn, err := ix.Lookup("A", 0, index.Down)
	require.NoError(t, err)

	splus := operator(t, dm, operators.Cdag(up).Mul(operators.C(dn)), nil)
	s := compute(t, splus, splus, dm, nil)
	assert.True(t, s.IsVanishing())
	v, err := s.Matsubara(0)
	require.NoError(t, err)
	assert.Equal(t, complex128(0), v)

	ave, err := susceptibility.EnsembleAverage(splus, dm)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ave)
}

func TestSusceptibility_Status(t *testing.T) {
	ix, err := index.ForSites(map[string]int{"S": 1})
	require.NoError(t, err)
	h, err := lattice.CoulombS(ix, "S", 1, 0)
	require.NoError(t, err)
	dm := solve(t, ix, h, 1, nil)
	n := operator(t, dm, operators.N(0), nil)

	s, err := susceptibility.New(n, n, dm)
	require.NoError(t, err)
	_, err = s.Matsubara(0)
	assert.ErrorIs(t, err, status.ErrStatusMismatch)
	assert.ErrorIs(t, s.Compute(context.Background(), nil), status.ErrStatusMismatch)

	other := solve(t, ix, h, 1, nil)
	_, err = susceptibility.New(n, n, other)
	assert.ErrorIs(t, err, susceptibility.ErrMismatchedModel)
	_, err = susceptibility.EnsembleAverage(n, other)
	assert.ErrorIs(t, err, susceptibility.ErrMismatchedModel)
}
