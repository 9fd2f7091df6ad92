// SPDX-License-Identifier: MIT

// Package linalg is the linear-algebra capability the engine delegates to:
// assembling symmetric block matrices and computing their full spectrum.
//
// What is here:
//   - Diagonalizer: the black-box contract "diagonalize a real symmetric
//     matrix, return ascending eigenvalues and the matching eigenvectors as
//     columns".
//   - EigenSym: the default solver, backed by gonum's LAPACK port.
//   - Jacobi: a deterministic cyclic-pivot Jacobi rotation solver with
//     functional options, useful as a cross-check and for tiny blocks.
//   - Triplets: a coordinate-format accumulator used to fill a block matrix
//     term by term before it is densified and symmetry-checked.
//
// Determinism:
//   - Both solvers are deterministic for a fixed input; eigenpairs are
//     reordered by SortEigenpairs (stable, ascending).
//
// Errors are sentinel values (errors.go) wrapped with the operation name;
// match them with errors.Is.
package linalg
