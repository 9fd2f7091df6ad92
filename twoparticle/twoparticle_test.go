// SPDX-License-Identifier: MIT

package twoparticle_test

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/fieldops"
	"github.com/katalvlaran/exactdiag/greensfunction"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/katalvlaran/exactdiag/twoparticle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type atom struct {
	beta   float64
	up, dn int
	dm     *densitymatrix.DensityMatrix
	fc     *fieldops.Container
}

func hubbardAtom(t *testing.T, u, beta float64) atom {
	t.Helper()
	ctx := context.Background()
	ix, err := index.ForSites(map[string]int{"A": 1})
	require.NoError(t, err)
	h, err := lattice.CoulombS(ix, "A", u, -u/2)
	require.NoError(t, err)
	c, err := states.Classify(h, ix.Len(), states.SpinCharges(ix))
	require.NoError(t, err)
	H, err := hamiltonian.New(c, h)
	require.NoError(t, err)
	require.NoError(t, H.Prepare())
	require.NoError(t, H.Compute(ctx, nil))
	dm, err := densitymatrix.New(H, beta)
	require.NoError(t, err)
	require.NoError(t, dm.Prepare())
	require.NoError(t, dm.Compute(ctx, nil))
	fc, err := fieldops.New(H, []int{0, 1})
	require.NoError(t, err)
	require.NoError(t, fc.ComputeAll(ctx, nil))

	up, err := ix.Lookup("A", 0, index.Up)
	require.NoError(t, err)
	dn, err := ix.Lookup("A", 0, index.Down)
	require.NoError(t, err)

	return atom{beta: beta, up: up, dn: dn, dm: dm, fc: fc}
}

func (a atom) chi(t *testing.T, i1, i2, i3, i4 int, d *distribute.Driver, opts ...twoparticle.Option) *twoparticle.TwoParticleGF {
	t.Helper()
	c1, err := a.fc.Annihilation(i1)
	require.NoError(t, err)
	c2, err := a.fc.Annihilation(i2)
	require.NoError(t, err)
	cx3, err := a.fc.Creation(i3)
	require.NoError(t, err)
	cx4, err := a.fc.Creation(i4)
	require.NoError(t, err)
	g, err := twoparticle.New(c1, c2, cx3, cx4, a.dm, opts...)
	require.NoError(t, err)
	require.NoError(t, g.Prepare())
	require.NoError(t, g.Compute(context.Background(), d))

	return g
}

func (a atom) gf(t *testing.T, i int) func(n int) complex128 {
	t.Helper()
	c, err := a.fc.Annihilation(i)
	require.NoError(t, err)
	cdag, err := a.fc.Creation(i)
	require.NoError(t, err)
	g, err := greensfunction.New(c, cdag, a.dm)
	require.NoError(t, err)
	require.NoError(t, g.Prepare())
	require.NoError(t, g.Compute(context.Background(), nil))

	return func(n int) complex128 {
		v, err := g.Matsubara(n)
		require.NoError(t, err)
		return v
	}
}

func delta(a, b int) float64 {
	if a == b {
		return 1
	}
	return 0
}

func assertClose(t *testing.T, want, got complex128, tol float64, args ...interface{}) {
	t.Helper()
	assert.LessOrEqual(t, cmplx.Abs(want-got), tol, args...)
}

// Half-filled Hubbard atom: χ against the analytic vertex.
func TestHubbardAtom_Vertex(t *testing.T) {
	const u, beta, nw = 1.0, 40.0, 4
	a := hubbardAtom(t, u, beta)
	opts := []twoparticle.Option{
		twoparticle.WithReduceResonanceTolerance(1e-4),
		twoparticle.WithCoefficientTolerance(1e-12),
	}
	gUp, gDn := a.gf(t, a.up), a.gf(t, a.dn)
	w := func(n int) float64 { return math.Pi * float64(2*n+1) / beta }
	sq := func(x float64) float64 { return x * x }

	t.Run("uuuu", func(t *testing.T) {
		chi := a.chi(t, a.up, a.up, a.up, a.up, nil, opts...)
		for n1 := -nw; n1 < nw; n1++ {
			for n2 := -nw; n2 < nw; n2++ {
				for n3 := -nw; n3 < nw; n3++ {
					n4 := n1 + n2 - n3
					gamma := -beta * (delta(n1, n3) - delta(n2, n3)) * sq(0.5*u) *
						(1 + sq(0.5*u/w(n1))) * (1 + sq(0.5*u/w(n2)))
					g12 := gUp(n1) * gUp(n2)
					want := complex(gamma, 0)*g12*gUp(n3)*gUp(n4) +
						complex(beta*delta(n1, n4), 0)*g12 - complex(beta*delta(n1, n3), 0)*g12
					got, err := chi.Matsubara(n1, n2, n3)
					require.NoError(t, err)
					assertClose(t, want, got, 1e-6, "n=(%d,%d,%d)", n1, n2, n3)
				}
			}
		}
	})

	t.Run("udud", func(t *testing.T) {
		chi := a.chi(t, a.up, a.dn, a.up, a.dn, distribute.New(distribute.WithWorkers(3)), opts...)
		wt := 1 / (1 + math.Exp(beta*0.5*u))
		for n1 := -nw; n1 < nw; n1++ {
			for n2 := -nw; n2 < nw; n2++ {
				for n3 := -nw; n3 < nw; n3++ {
					n4 := n1 + n2 - n3
					o1, o2, o3, o4 := w(n1), w(n2), w(n3), w(n4)
					deltam := 0.0
					if n1+n2 == -1 {
						deltam = 1
					}
					v := u
					v += -0.125 * u * u * u * (sq(o1) + sq(o2) + sq(o3) + sq(o4)) / (o1 * o2 * o3 * o4)
					v += -0.1875 * math.Pow(u, 5) / (o1 * o2 * o3 * o4)
					v += -beta * (2*deltam + delta(n1, n3)) * wt * sq(0.5*u) * (1 + sq(0.5*u/o2)) * (1 + sq(0.5*u/o3))
					v += beta * (2*delta(n2, n3) + delta(n1, n3)) * (1 - wt) * sq(0.5*u) * (1 + sq(0.5*u/o1)) * (1 + sq(0.5*u/o2))
					want := complex(v, 0)*gUp(n1)*gDn(n2)*gUp(n3)*gDn(n4) -
						complex(beta*delta(n1, n3), 0)*gUp(n1)*gDn(n2)
					got, err := chi.Matsubara(n1, n2, n3)
					require.NoError(t, err)
					assertClose(t, want, got, 1e-6, "n=(%d,%d,%d)", n1, n2, n3)
				}
			}
		}
	})
}

func TestAntisymmetry(t *testing.T) {
	a := hubbardAtom(t, 2, 3)
	chi := a.chi(t, a.up, a.dn, a.up, a.dn, nil)
	swapped := a.chi(t, a.dn, a.up, a.up, a.dn, nil)
	assert.False(t, chi.IsVanishing())

	for _, n := range [][3]int{{0, 1, 2}, {-1, 0, 0}, {2, -3, 1}, {0, 0, 0}} {
		x, err := chi.Matsubara(n[0], n[1], n[2])
		require.NoError(t, err)
		y, err := swapped.Matsubara(n[1], n[0], n[2])
		require.NoError(t, err)
		assertClose(t, x, -y, 1e-10, "n=%v", n)
	}
}

func TestVanishing(t *testing.T) {
	a := hubbardAtom(t, 1, 1)
	chi := a.chi(t, a.up, a.up, a.dn, a.dn, nil)
	assert.True(t, chi.IsVanishing())
	assert.Empty(t, chi.Parts())
	assert.Equal(t, 0, chi.NumTerms())
	v, err := chi.Matsubara(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, complex128(0), v)
}

func TestWorkerEquivalence(t *testing.T) {
	a := hubbardAtom(t, 1.5, 5)
	one := a.chi(t, a.up, a.dn, a.up, a.dn, distribute.New())
	four := a.chi(t, a.up, a.dn, a.up, a.dn, distribute.New(distribute.WithWorkers(4)))
	assert.Equal(t, one.NumTerms(), four.NumTerms())
	for n1 := -2; n1 < 2; n1++ {
		for n3 := -2; n3 < 2; n3++ {
			x, err := one.Matsubara(n1, 0, n3)
			require.NoError(t, err)
			y, err := four.Matsubara(n1, 0, n3)
			require.NoError(t, err)
			assert.Equal(t, x, y)
		}
	}
}

func TestStatus(t *testing.T) {
	a := hubbardAtom(t, 1, 1)
	c, err := a.fc.Annihilation(a.up)
	require.NoError(t, err)
	cx, err := a.fc.Creation(a.up)
	require.NoError(t, err)
	g, err := twoparticle.New(c, c, cx, cx, a.dm)
	require.NoError(t, err)
	_, err = g.Matsubara(0, 0, 0)
	assert.ErrorIs(t, err, status.ErrStatusMismatch)
	assert.ErrorIs(t, g.Compute(context.Background(), nil), status.ErrStatusMismatch)
}

func TestContainer_Vertex(t *testing.T) {
	const u, beta, nw = 1.0, 40.0, 4
	ctx := context.Background()
	a := hubbardAtom(t, u, beta)
	opts := []twoparticle.Option{
		twoparticle.WithReduceResonanceTolerance(1e-4),
		twoparticle.WithCoefficientTolerance(1e-12),
	}
	uuuu := twoparticle.Quadruple{I1: a.up, I2: a.up, I3: a.up, I4: a.up}
	udud := twoparticle.Quadruple{I1: a.up, I2: a.dn, I3: a.up, I4: a.dn}
	tc, err := twoparticle.NewContainer(a.fc, a.dm, []twoparticle.Quadruple{uuuu, udud, uuuu}, opts...)
	require.NoError(t, err)
	assert.Equal(t, []twoparticle.Quadruple{uuuu, udud}, tc.Quadruples())
	require.NoError(t, tc.PrepareAll())
	require.NoError(t, tc.ComputeAll(ctx, distribute.New(distribute.WithWorkers(2))))

	_, err = tc.Get(a.dn, a.dn, a.up, a.up)
	assert.ErrorIs(t, err, twoparticle.ErrUnknownQuadruple)

	gc, err := greensfunction.NewContainer(a.fc, a.dm, []greensfunction.Pair{{I: a.up, J: a.up}})
	require.NoError(t, err)
	require.NoError(t, gc.PrepareAll())
	require.NoError(t, gc.ComputeAll(ctx, nil))
	g, err := gc.Get(a.up, a.up)
	require.NoError(t, err)

	chi, err := tc.Get(a.up, a.up, a.up, a.up)
	require.NoError(t, err)
	gamma, err := twoparticle.NewVertex(chi, g, g, g, g)
	require.NoError(t, err)

	gUp := a.gf(t, a.up)
	w := func(n int) float64 { return math.Pi * float64(2*n+1) / beta }
	sq := func(x float64) float64 { return x * x }
	for n1 := -nw; n1 < nw; n1++ {
		for n2 := -nw; n2 < nw; n2++ {
			for n3 := -nw; n3 < nw; n3++ {
				n4 := n1 + n2 - n3
				ref := -beta * (delta(n1, n3) - delta(n2, n3)) * sq(0.5*u) *
					(1 + sq(0.5*u/w(n1))) * (1 + sq(0.5*u/w(n2)))
				want := complex(ref, 0) * gUp(n1) * gUp(n2) * gUp(n3) * gUp(n4)
				got, err := gamma.Matsubara(n1, n2, n3)
				require.NoError(t, err)
				assertClose(t, want, got, 1e-6, "n=(%d,%d,%d)", n1, n2, n3)
			}
		}
	}

	freqs := []twoparticle.Frequencies{
		{complex(0, w(0)), complex(0, w(1)), complex(0, w(0))},
		{complex(0, w(-1)), complex(0, w(2)), complex(0, w(3))},
	}
	vals, err := tc.Evaluate(freqs)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	x, err := chi.Matsubara(-1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, x, vals[uuuu][1])
	y, err := chi.Matsubara(0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, y, vals[uuuu][0])
}

func TestVertex_MismatchedModel(t *testing.T) {
	a := hubbardAtom(t, 1, 2)
	b := hubbardAtom(t, 1, 3)
	chi := a.chi(t, a.up, a.up, a.up, a.up, nil)
	c, err := b.fc.Annihilation(b.up)
	require.NoError(t, err)
	cx, err := b.fc.Creation(b.up)
	require.NoError(t, err)
	g, err := greensfunction.New(c, cx, b.dm)
	require.NoError(t, err)
	_, err = twoparticle.NewVertex(chi, g, g, g, g)
	assert.ErrorIs(t, err, twoparticle.ErrMismatchedModel)
}
