// SPDX-License-Identifier: MIT

package twoparticle

import (
	"math"
	"math/cmplx"
)

// NonResonant is
//
//	C / ((z1-P1)(z2-P2)(z3-P3))               when Z4 is false,
//	C / ((z1-P1)(z1+z2+z3-P1-P2-P3)(z3-P3))   when Z4 is true.
type NonResonant struct {
	Coeff  float64    `yaml:"coeff" json:"coeff"`
	Poles  [3]float64 `yaml:"poles" json:"poles"`
	Z4     bool       `yaml:"z4" json:"z4"`
	Weight int        `yaml:"weight" json:"weight"`
}

// At evaluates the term.
func (t NonResonant) At(z1, z2, z3 complex128) complex128 {
	p1, p2, p3 := complex(t.Poles[0], 0), complex(t.Poles[1], 0), complex(t.Poles[2], 0)
	mid := z2 - p2
	if t.Z4 {
		mid = z1 + z2 + z3 - p1 - p2 - p3
	}

	return complex(t.Coeff, 0) / ((z1 - p1) * mid * (z3 - p3))
}

// Resonant is
//
//	(|D| < tol ? R : N/D) / ((z1-P1)(z3-P3))
//
// with D = z1+z2-P1-P2 when Z1Z2 is true and D = z2+z3-P2-P3 otherwise.
type Resonant struct {
	ResCoeff    float64    `yaml:"res_coeff" json:"res_coeff"`
	NonResCoeff float64    `yaml:"nonres_coeff" json:"nonres_coeff"`
	Poles       [3]float64 `yaml:"poles" json:"poles"`
	Z1Z2        bool       `yaml:"z1z2" json:"z1z2"`
	Weight      int        `yaml:"weight" json:"weight"`
}

// At evaluates the term; kronecker is the |D| threshold of the resonant
// branch.
func (t Resonant) At(z1, z2, z3 complex128, kronecker float64) complex128 {
	p1, p2, p3 := complex(t.Poles[0], 0), complex(t.Poles[1], 0), complex(t.Poles[2], 0)
	d := z2 + z3 - p2 - p3
	if t.Z1Z2 {
		d = z1 + z2 - p1 - p2
	}
	var num complex128
	if cmplx.Abs(d) < kronecker {
		num = complex(t.ResCoeff, 0)
	} else {
		num = complex(t.NonResCoeff, 0) / d
	}

	return num / ((z1 - p1) * (z3 - p3))
}

func lessPoles(a, b [3]float64, tol float64) bool {
	if math.Abs(a[0]-b[0]) >= tol {
		return a[0] < b[0]
	}
	if math.Abs(a[1]-b[1]) >= tol {
		return a[1] < b[1]
	}

	return b[2]-a[2] >= tol
}

func averagePoles(a, b [3]float64, wa, wb int) [3]float64 {
	var out [3]float64
	for i := range out {
		out[i] = (float64(wa)*a[i] + float64(wb)*b[i]) / float64(wa+wb)
	}

	return out
}

// NonResonantPolicy orders non-resonant terms by kind, then poles.
type NonResonantPolicy struct{}

// Less orders Z4=false before Z4=true, then by poles within tol.
func (NonResonantPolicy) Less(a, b NonResonant, tol float64) bool {
	if a.Z4 != b.Z4 {
		return !a.Z4
	}

	return lessPoles(a.Poles, b.Poles, tol)
}

// Merge sums coefficients and averages poles by weight.
func (NonResonantPolicy) Merge(a, b NonResonant) NonResonant {
	return NonResonant{
		Coeff:  a.Coeff + b.Coeff,
		Poles:  averagePoles(a.Poles, b.Poles, a.Weight, b.Weight),
		Z4:     a.Z4,
		Weight: a.Weight + b.Weight,
	}
}

// Negligible reports |C| < tol/divisor.
func (NonResonantPolicy) Negligible(t NonResonant, tol float64, divisor int) bool {
	return math.Abs(t.Coeff) < tol/float64(divisor)
}

// ResonantPolicy orders resonant terms by kind, then poles.
type ResonantPolicy struct{}

// Less orders Z1Z2=false before Z1Z2=true, then by poles within tol.
func (ResonantPolicy) Less(a, b Resonant, tol float64) bool {
	if a.Z1Z2 != b.Z1Z2 {
		return !a.Z1Z2
	}

	return lessPoles(a.Poles, b.Poles, tol)
}

// Merge sums both coefficients and averages poles by weight.
func (ResonantPolicy) Merge(a, b Resonant) Resonant {
	return Resonant{
		ResCoeff:    a.ResCoeff + b.ResCoeff,
		NonResCoeff: a.NonResCoeff + b.NonResCoeff,
		Poles:       averagePoles(a.Poles, b.Poles, a.Weight, b.Weight),
		Z1Z2:        a.Z1Z2,
		Weight:      a.Weight + b.Weight,
	}
}

// Negligible reports that both coefficients are below tol/divisor.
func (ResonantPolicy) Negligible(t Resonant, tol float64, divisor int) bool {
	lim := tol / float64(divisor)

	return math.Abs(t.ResCoeff) < lim && math.Abs(t.NonResCoeff) < lim
}
