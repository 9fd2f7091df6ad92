// SPDX-License-Identifier: MIT

// Package fieldops keeps the creation and annihilation operators of a set of
// mode indices, rotated into the eigenbases of one Hamiltonian.
//
// ComputeAll rotates each c†_i and derives c_i as its transpose, so the
// annihilation parts never go through the Fock-space build. With WithLazy the
// pair of an index is prepared and computed on its first lookup instead.
package fieldops
