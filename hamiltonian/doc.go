// SPDX-License-Identifier: MIT

// Package hamiltonian restricts a Hamiltonian expression to every block of a
// states.Classification and diagonalizes each block independently.
//
// Lifecycle (status.Tracker):
//   - Prepare: one Part per block with its basis and an empty matrix
//     accumulator.
//   - Compute: fill each block matrix by applying every monomial to every
//     basis state, check symmetry, diagonalize, then record the ground
//     energy (minimum eigenvalue over all blocks). Blocks are distributed
//     over the ranks of a distribute.Driver, weighted by size^3.
//
// Eigenvalues of a block are non-decreasing; no ordering across blocks is
// implied. Eigenvectors are the columns of Part.EigenVectors, expressed in
// the block basis (offsets of states.Classification.BlockStates).
package hamiltonian
