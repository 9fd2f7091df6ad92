// SPDX-License-Identifier: MIT

package twoparticle

import (
	"fmt"

	"github.com/katalvlaran/exactdiag/greensfunction"
)

// Vertex is the two-particle Green's function with the disconnected part
// removed:
//
//	Γ(n1, n2; n3) = χ(n1, n2; n3) + β G13(n1) G24(n2) δ(n1,n3) - β G14(n1) G23(n2) δ(n2,n3)
//
// It stores nothing and evaluates its inputs on every call.
type Vertex struct {
	chi                *TwoParticleGF
	g13, g24, g14, g23 *greensfunction.GreensFunction
}

// NewVertex binds χ and the four single-particle functions. All must share
// χ's density matrix.
func NewVertex(chi *TwoParticleGF, g13, g24, g14, g23 *greensfunction.GreensFunction) (*Vertex, error) {
	for _, g := range []*greensfunction.GreensFunction{g13, g24, g14, g23} {
		if g.DensityMatrix() != chi.DensityMatrix() {
			return nil, fmt.Errorf("twoparticle.NewVertex: %w", ErrMismatchedModel)
		}
	}

	return &Vertex{chi: chi, g13: g13, g24: g24, g14: g14, g23: g23}, nil
}

// Matsubara returns Γ at fermionic Matsubara indices (n1, n2; n3). χ and the
// Green's functions must be computed.
func (v *Vertex) Matsubara(n1, n2, n3 int) (complex128, error) {
	val, err := v.chi.Matsubara(n1, n2, n3)
	if err != nil {
		return 0, fmt.Errorf("Vertex.Matsubara: %w", err)
	}
	beta := complex(v.chi.DensityMatrix().Beta(), 0)
	if n1 == n3 {
		a, b, err := pair(v.g13, v.g24, n1, n2)
		if err != nil {
			return 0, fmt.Errorf("Vertex.Matsubara: %w", err)
		}
		val += beta * a * b
	}
	if n2 == n3 {
		a, b, err := pair(v.g14, v.g23, n1, n2)
		if err != nil {
			return 0, fmt.Errorf("Vertex.Matsubara: %w", err)
		}
		val -= beta * a * b
	}

	return val, nil
}

func pair(ga, gb *greensfunction.GreensFunction, na, nb int) (complex128, complex128, error) {
	a, err := ga.Matsubara(na)
	if err != nil {
		return 0, 0, err
	}
	b, err := gb.Matsubara(nb)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}
