// SPDX-License-Identifier: MIT

package greensfunction

import "math"

// Term is one pole of the Lehmann sum.
type Term struct {
	Pole    float64 `yaml:"pole" json:"pole"`
	Residue float64 `yaml:"residue" json:"residue"`
}

// At returns R / (z - P).
func (t Term) At(z complex128) complex128 {
	return complex(t.Residue, 0) / (z - complex(t.Pole, 0))
}

// Tau returns the imaginary-time contribution at 0 <= tau < beta. The
// exponent never exceeds zero.
func (t Term) Tau(tau, beta float64) float64 {
	if t.Pole > 0 {
		return -t.Residue * math.Exp(-tau*t.Pole) / (1 + math.Exp(-beta*t.Pole))
	}

	return -t.Residue * math.Exp((beta-tau)*t.Pole) / (math.Exp(beta*t.Pole) + 1)
}

// TermPolicy orders terms by pole and merges residues.
type TermPolicy struct{}

// Less reports whether a's pole lies below b's by at least tol.
func (TermPolicy) Less(a, b Term, tol float64) bool { return b.Pole-a.Pole >= tol }

// Merge keeps a's pole and sums the residues.
func (TermPolicy) Merge(a, b Term) Term { return Term{Pole: a.Pole, Residue: a.Residue + b.Residue} }

// Negligible reports |R| < tol/divisor.
func (TermPolicy) Negligible(t Term, tol float64, divisor int) bool {
	return math.Abs(t.Residue) < tol/float64(divisor)
}
