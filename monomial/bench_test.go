// SPDX-License-Identifier: MIT

package monomial_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
)

var sinkOp *monomial.Operator

// hubbardChain is an open Hubbard chain of the given number of sites, already
// diagonalized.
func hubbardChain(b *testing.B, sites int) *hamiltonian.Hamiltonian {
	b.Helper()
	orbitals := make(map[string]int, sites)
	for i := 0; i < sites; i++ {
		orbitals[fmt.Sprintf("S%d", i)] = 1
	}
	ix, err := index.ForSites(orbitals)
	if err != nil {
		b.Fatal(err)
	}
	var h operators.Expression
	for i := 0; i < sites; i++ {
		u, err := lattice.CoulombS(ix, fmt.Sprintf("S%d", i), 2, -1)
		if err != nil {
			b.Fatal(err)
		}
		h = h.Add(u)
		if i+1 < sites {
			hop, err := lattice.Hopping(ix, fmt.Sprintf("S%d", i), fmt.Sprintf("S%d", i+1), -1)
			if err != nil {
				b.Fatal(err)
			}
			h = h.Add(hop)
		}
	}
	c, err := states.Classify(h, ix.Len(), states.SpinCharges(ix))
	if err != nil {
		b.Fatal(err)
	}
	H, err := hamiltonian.New(c, h)
	if err != nil {
		b.Fatal(err)
	}
	if err := H.Prepare(); err != nil {
		b.Fatal(err)
	}
	if err := H.Compute(context.Background(), nil); err != nil {
		b.Fatal(err)
	}

	return H
}

func BenchmarkCreationCompute(b *testing.B) {
	for _, sites := range []int{3, 4} {
		H := hubbardChain(b, sites)
		for _, workers := range []int{1, 4} {
			b.Run(fmt.Sprintf("sites=%d/workers=%d", sites, workers), func(b *testing.B) {
				d := distribute.New(distribute.WithWorkers(workers))
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					op, err := monomial.Creation(H, 0)
					if err != nil {
						b.Fatal(err)
					}
					if err := op.Prepare(); err != nil {
						b.Fatal(err)
					}
					if err := op.Compute(context.Background(), d); err != nil {
						b.Fatal(err)
					}
					sinkOp = op
				}
			})
		}
	}
}

func BenchmarkSetFromAdjoint(b *testing.B) {
	H := hubbardChain(b, 4)
	cdag, err := monomial.Creation(H, 0)
	if err != nil {
		b.Fatal(err)
	}
	if err := cdag.Prepare(); err != nil {
		b.Fatal(err)
	}
	if err := cdag.Compute(context.Background(), nil); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := monomial.Annihilation(H, 0)
		if err != nil {
			b.Fatal(err)
		}
		if err := c.SetFromAdjoint(cdag); err != nil {
			b.Fatal(err)
		}
		sinkOp = c
	}
}
