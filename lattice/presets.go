// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"

	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/operators"
)

var spins = [2]index.Spin{index.Up, index.Down}

func mode(ix *index.Classification, site string, orbital int, s index.Spin) (int, error) {
	return ix.Lookup(site, orbital, s)
}

// Level returns value * n(site, orbital, spin).
func Level(ix *index.Classification, site string, value float64, orbital int, s index.Spin) (operators.Expression, error) {
	i, err := mode(ix, site, orbital, s)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.Level: %w", err)
	}

	return operators.N(i).Scale(value), nil
}

// SiteLevel returns value times the total occupation of every orbital of site.
func SiteLevel(ix *index.Classification, site string, value float64) (operators.Expression, error) {
	var res operators.Expression
	for o := 0; o < ix.Orbitals(site); o++ {
		for _, s := range spins {
			term, err := Level(ix, site, value, o, s)
			if err != nil {
				return operators.Expression{}, err
			}
			res = res.Add(term)
		}
	}

	return res, nil
}

// HoppingSpin returns t c†(a, oa, sa) c(b, ob, sb) + h.c.
func HoppingSpin(ix *index.Classification, a, b string, t float64, oa, ob int, sa, sb index.Spin) (operators.Expression, error) {
	i, err := mode(ix, a, oa, sa)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.Hopping: %w", err)
	}
	j, err := mode(ix, b, ob, sb)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.Hopping: %w", err)
	}

	return operators.Cdag(i).Mul(operators.C(j)).Scale(t).PlusHC(), nil
}

// Hopping returns spin-conserving hopping t between a and b for every orbital
// they share, both spin projections, Hermitian conjugate included.
func Hopping(ix *index.Classification, a, b string, t float64) (operators.Expression, error) {
	n := ix.Orbitals(a)
	if nb := ix.Orbitals(b); nb < n {
		n = nb
	}
	if n == 0 {
		return operators.Expression{}, fmt.Errorf("lattice.Hopping(%s, %s): %w", a, b, index.ErrUnknownIndex)
	}
	var res operators.Expression
	for o := 0; o < n; o++ {
		for _, s := range spins {
			term, err := HoppingSpin(ix, a, b, t, o, o, s, s)
			if err != nil {
				return operators.Expression{}, err
			}
			res = res.Add(term)
		}
	}

	return res, nil
}

// NupNdown returns value * n(a, oa, sa) n(b, ob, sb).
func NupNdown(ix *index.Classification, a, b string, value float64, oa, ob int, sa, sb index.Spin) (operators.Expression, error) {
	i, err := mode(ix, a, oa, sa)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.NupNdown: %w", err)
	}
	j, err := mode(ix, b, ob, sb)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.NupNdown: %w", err)
	}

	return operators.N(i).Mul(operators.N(j)).Scale(value), nil
}

// four returns value * c†(i1) c†(i2) c(i3) c(i4).
func four(value float64, i1, i2, i3, i4 int) operators.Expression {
	return operators.Cdag(i1).Mul(operators.Cdag(i2)).Mul(operators.C(i3)).Mul(operators.C(i4)).Scale(value)
}

// Spinflip returns value * c†(o1,s1) c†(o2,s2) c(o2,s1) c(o1,s2) on one site.
func Spinflip(ix *index.Classification, site string, value float64, o1, o2 int, s1, s2 index.Spin) (operators.Expression, error) {
	idx, err := lookupAll(ix, site, [][2]int{{o1, int(s1)}, {o2, int(s2)}, {o2, int(s1)}, {o1, int(s2)}})
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.Spinflip: %w", err)
	}

	return four(value, idx[0], idx[1], idx[2], idx[3]), nil
}

// PairHopping returns value * c†(o1,s1) c†(o1,s2) c(o2,s1) c(o2,s2) on one site.
func PairHopping(ix *index.Classification, site string, value float64, o1, o2 int, s1, s2 index.Spin) (operators.Expression, error) {
	idx, err := lookupAll(ix, site, [][2]int{{o1, int(s1)}, {o1, int(s2)}, {o2, int(s1)}, {o2, int(s2)}})
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.PairHopping: %w", err)
	}

	return four(value, idx[0], idx[1], idx[2], idx[3]), nil
}

// SplusSminus returns value * S+(a) S-(b) for orbital o.
func SplusSminus(ix *index.Classification, a, b string, value float64, o int) (operators.Expression, error) {
	return spinExchange(ix, a, b, value, o, index.Up, index.Down)
}

// SminusSplus returns value * S-(a) S+(b) for orbital o.
func SminusSplus(ix *index.Classification, a, b string, value float64, o int) (operators.Expression, error) {
	return spinExchange(ix, a, b, value, o, index.Down, index.Up)
}

func spinExchange(ix *index.Classification, a, b string, value float64, o int, s1, s2 index.Spin) (operators.Expression, error) {
	a1, err := mode(ix, a, o, s1)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.SpinExchange: %w", err)
	}
	a2, err := mode(ix, a, o, s2)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.SpinExchange: %w", err)
	}
	b1, err := mode(ix, b, o, s2)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.SpinExchange: %w", err)
	}
	b2, err := mode(ix, b, o, s1)
	if err != nil {
		return operators.Expression{}, fmt.Errorf("lattice.SpinExchange: %w", err)
	}

	return operators.Cdag(a1).Mul(operators.C(a2)).Mul(operators.Cdag(b1)).Mul(operators.C(b2)).Scale(value), nil
}

func lookupAll(ix *index.Classification, site string, pairs [][2]int) ([]int, error) {
	out := make([]int, len(pairs))
	for k, p := range pairs {
		i, err := mode(ix, site, p[0], index.Spin(p[1]))
		if err != nil {
			return nil, err
		}
		out[k] = i
	}

	return out, nil
}

// CoulombS returns the single-band Hubbard site term
// level*(n↑+n↓) + U n↑n↓ for every orbital of site.
func CoulombS(ix *index.Classification, site string, u, level float64) (operators.Expression, error) {
	n := ix.Orbitals(site)
	if n == 0 {
		return operators.Expression{}, fmt.Errorf("lattice.CoulombS(%s): %w", site, index.ErrUnknownIndex)
	}
	var res operators.Expression
	for o := 0; o < n; o++ {
		for _, s := range spins {
			term, err := Level(ix, site, level, o, s)
			if err != nil {
				return operators.Expression{}, err
			}
			res = res.Add(term)
		}
		nn, err := NupNdown(ix, site, site, u, o, o, index.Up, index.Down)
		if err != nil {
			return operators.Expression{}, err
		}
		res = res.Add(nn)
	}

	return res, nil
}

// CoulombP returns the rotationally invariant Kanamori interaction of a
// multi-orbital site with intra-orbital U, inter-orbital Up, Hund's
// coupling J and on-site level.
func CoulombP(ix *index.Classification, site string, u, up, j, level float64) (operators.Expression, error) {
	n := ix.Orbitals(site)
	if n < 2 {
		return operators.Expression{}, fmt.Errorf("lattice.CoulombP(%s, %d orbitals): %w", site, n, ErrTooFewOrbitals)
	}
	var res operators.Expression
	add := func(e operators.Expression, err error) error {
		if err != nil {
			return err
		}
		res = res.Add(e)
		return nil
	}
	for o1 := 0; o1 < n; o1++ {
		for _, s1 := range spins {
			if err := add(Level(ix, site, level, o1, s1)); err != nil {
				return operators.Expression{}, err
			}
			for o2 := 0; o2 < n; o2++ {
				if o1 == o2 {
					continue
				}
				if err := add(NupNdown(ix, site, site, (up-j)/2, o1, o2, s1, s1)); err != nil {
					return operators.Expression{}, err
				}
			}
			if s1 != index.Up {
				continue
			}
			s2 := index.Down
			if err := add(NupNdown(ix, site, site, u, o1, o1, s1, s2)); err != nil {
				return operators.Expression{}, err
			}
			for o2 := 0; o2 < n; o2++ {
				if o1 == o2 {
					continue
				}
				if err := add(NupNdown(ix, site, site, up, o1, o2, s1, s2)); err != nil {
					return operators.Expression{}, err
				}
				if err := add(Spinflip(ix, site, -j, o1, o2, s1, s2)); err != nil {
					return operators.Expression{}, err
				}
				if err := add(PairHopping(ix, site, -j, o1, o2, s1, s2)); err != nil {
					return operators.Expression{}, err
				}
			}
		}
	}

	return res, nil
}
