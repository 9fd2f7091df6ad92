// SPDX-License-Identifier: MIT

package hamiltonian_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/linalg"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/states"
)

var sinkF float64

// ring is a half-filled Hubbard ring of the given number of sites.
func ring(b *testing.B, sites int) (*states.Classification, operators.Expression) {
	b.Helper()
	names := make([]string, sites)
	orbitals := make(map[string]int, sites)
	for i := range names {
		names[i] = fmt.Sprintf("S%d", i)
		orbitals[names[i]] = 1
	}
	ix, err := index.ForSites(orbitals)
	if err != nil {
		b.Fatal(err)
	}
	var h operators.Expression
	for i, s := range names {
		u, err := lattice.CoulombS(ix, s, 2, -1)
		if err != nil {
			b.Fatal(err)
		}
		hop, err := lattice.Hopping(ix, s, names[(i+1)%sites], -1)
		if err != nil {
			b.Fatal(err)
		}
		h = h.Add(u).Add(hop)
	}
	c, err := states.Classify(h, ix.Len(), states.SpinCharges(ix))
	if err != nil {
		b.Fatal(err)
	}

	return c, h
}

func BenchmarkCompute(b *testing.B) {
	solvers := map[string]linalg.Diagonalizer{"eigensym": linalg.EigenSym{}, "jacobi": linalg.NewJacobi()}
	for _, sites := range []int{3, 4} {
		for name, solver := range solvers {
			for _, workers := range []int{1, 4} {
				b.Run(fmt.Sprintf("sites=%d/%s/workers=%d", sites, name, workers), func(b *testing.B) {
					c, h := ring(b, sites)
					d := distribute.New(distribute.WithWorkers(workers))
					b.ReportAllocs()
					b.ResetTimer()
					for i := 0; i < b.N; i++ {
						H, err := hamiltonian.New(c, h, hamiltonian.WithSolver(solver))
						if err != nil {
							b.Fatal(err)
						}
						if err := H.Prepare(); err != nil {
							b.Fatal(err)
						}
						if err := H.Compute(context.Background(), d); err != nil {
							b.Fatal(err)
						}
						sinkF, _ = H.GroundEnergy()
					}
				})
			}
		}
	}
}
