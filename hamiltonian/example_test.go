// SPDX-License-Identifier: MIT

package hamiltonian_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
)

// ExampleHamiltonian diagonalizes an open three-mode chain with unit hopping.
// The one-particle levels are -√2, 0 and √2, so the one- and two-particle
// sectors share the ground energy -√2.
func ExampleHamiltonian() {
	h := operators.Cdag(0).Mul(operators.C(1)).
		Add(operators.Cdag(1).Mul(operators.C(2))).
		PlusHC().Scale(-1)
	c, err := states.Classify(h, 3, states.ParticleNumber(3))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	H, err := hamiltonian.New(c, h)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := H.Prepare(); err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := H.Compute(context.Background(), nil); err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, b := range c.Blocks() {
		p, _ := H.Part(b)
		label, _ := c.Label(b)
		fmt.Printf("N=%v size=%d min=%.6f\n", label, p.Size(), p.MinEigenValue())
	}
	e0, _ := H.GroundEnergy()
	fmt.Printf("ground=%.6f\n", e0)

	// Output:
	// N=(0) size=1 min=0.000000
	// N=(1) size=3 min=-1.414214
	// N=(2) size=3 min=-1.414214
	// N=(3) size=1 min=0.000000
	// ground=-1.414214
}
