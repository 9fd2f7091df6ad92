// SPDX-License-Identifier: MIT

package susceptibility

import "math"

// Term is one bosonic pole.
type Term struct {
	Pole    float64 `yaml:"pole" json:"pole"`
	Residue float64 `yaml:"residue" json:"residue"`
}

// At returns -R / (z - P).
func (t Term) At(z complex128) complex128 {
	return -complex(t.Residue, 0) / (z - complex(t.Pole, 0))
}

// Tau returns the imaginary-time contribution at 0 <= tau < beta. The pole
// is never zero.
func (t Term) Tau(tau, beta float64) float64 {
	if t.Pole > 0 {
		return t.Residue * math.Exp(-tau*t.Pole) / (1 - math.Exp(-beta*t.Pole))
	}

	return t.Residue * math.Exp((beta-tau)*t.Pole) / (math.Exp(beta*t.Pole) - 1)
}

type termPolicy struct{}

func (termPolicy) Less(a, b Term, tol float64) bool { return b.Pole-a.Pole >= tol }

func (termPolicy) Merge(a, b Term) Term { return Term{Pole: a.Pole, Residue: a.Residue + b.Residue} }

func (termPolicy) Negligible(t Term, tol float64, divisor int) bool {
	return math.Abs(t.Residue) < tol/float64(divisor)
}
