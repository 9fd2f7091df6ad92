// SPDX-License-Identifier: MIT

// Package twoparticle assembles the Lehmann representation of the
// two-particle thermal Green's function
//
//	χ(ω1, ω2; ω3) = ∫∫∫ <T c1(τ1) c2(τ2) c†3(τ3) c†4(0)> e^{iω1τ1 + iω2τ2 - iω3τ3}
//
// from two rotated annihilation operators, two rotated creation operators
// and a computed density matrix.
//
// The time ordering is expanded over the six permutations of (c1, c2, c†3),
// each with its sign. For a permutation (O1, O2, O3) a part is a closed
// chain of four blocks
//
//	S1 --c†4--> S4 --O3--> S3 --O2--> S2 --O1--> S1
//
// with at least one block retained by the density matrix. Each quadruple of
// eigenstates (i, j, k, l) of (S1, S2, S3, S4) contributes non-resonant terms
// and, when P1+P2 or P2+P3 vanishes, resonant terms; P1 = Ej-Ei,
// P2 = Ek-Ej, P3 = El-Ek.
package twoparticle
