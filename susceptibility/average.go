// SPDX-License-Identifier: MIT

package susceptibility

import (
	"fmt"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/monomial"
)

// EnsembleAverage returns <A> = Σ_b Σ_i A_ii w_i over the retained blocks b
// that A maps onto themselves. A must be computed.
func EnsembleAverage(a *monomial.Operator, dm *densitymatrix.DensityMatrix) (float64, error) {
	if a.Hamiltonian() != dm.Hamiltonian() {
		return 0, fmt.Errorf("susceptibility.EnsembleAverage: %w", ErrMismatchedModel)
	}
	parts, err := a.Parts()
	if err != nil {
		return 0, fmt.Errorf("susceptibility.EnsembleAverage: %w", err)
	}
	var per []float64
	for _, p := range parts {
		if p.Left() != p.Right() || !dm.IsRetained(p.Left()) {
			continue
		}
		wp, err := dm.Part(p.Left())
		if err != nil {
			return 0, fmt.Errorf("susceptibility.EnsembleAverage: %w", err)
		}
		rows, _ := p.Dims()
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += p.At(i, i) * wp.Weight(i)
		}
		per = append(per, sum)
	}

	return distribute.AllReduceSum(per), nil
}
