// SPDX-License-Identifier: MIT

// Package densitymatrix computes the Gibbs weights of every eigenstate of a
// computed hamiltonian.Hamiltonian at inverse temperature β:
//
//	w = exp(-β(E - E0)) / Z,   Z = Σ exp(-β(E - E0))
//
// with E0 the ground energy. Weights are block-diagonal, non-negative and sum
// to one. TruncateBlocks marks blocks whose largest weight does not exceed a
// tolerance as dropped; downstream assemblers skip pairs of dropped blocks.
package densitymatrix
