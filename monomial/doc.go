// SPDX-License-Identifier: MIT

// Package monomial rotates a single-monomial operator into the eigenbases of
// a computed Hamiltonian.
//
// An Operator connects a right block R to at most one left block L: the
// label of L is the label of R plus the charge shift of the monomial. The
// connections form a partial bijection (Bimap). For every connection a Part
// holds the L×R matrix
//
//	O_rot = U_Lᵀ · O · U_R
//
// where O is the monomial in the Fock basis and U are eigenvector matrices.
// Elements with |x| <= MatrixElementTolerance are pruned.
//
// Lookups of an unconnected block return states.InvalidBlock; it only means
// the operator vanishes there.
package monomial
