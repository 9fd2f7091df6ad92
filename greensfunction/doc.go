// SPDX-License-Identifier: MIT

// Package greensfunction assembles the Lehmann representation of the
// single-particle thermal Green's function
//
//	G(τ) = -<T c(τ) c†(0)>,   G(z) = Σ R / (z - P)
//
// from a rotated annihilation operator c, a rotated creation operator c† and
// a computed density matrix.
//
// A block pair (L, R) contributes when c maps R to L, c† maps L back to R and
// at least one of the two blocks is retained by the density matrix. For
// eigenstates i of R and o of L the term has pole E_i - E_o and residue
//
//	c(o,i) · c†(i,o) · (w_o + w_i).
//
// Terms with equal poles (within PoleTolerance) are merged. A Green's
// function without contributing pairs is vanishing and evaluates to zero.
package greensfunction
