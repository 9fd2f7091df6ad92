// SPDX-License-Identifier: MIT

// Package operators models second-quantized fermionic operator expressions:
// real-coefficient sums of monomials, each monomial an ordered string of
// creation (c†) and annihilation (c) operators over integer mode indices.
//
// The engine consumes expressions in two ways only: enumerating monomials
// (Expression.Terms) and applying a single monomial to a Fock basis state
// (Monomial.Apply). Fock states are uint64 bitmasks, bit i set when mode i is
// occupied. The fermionic sign follows the Jordan-Wigner convention: applying
// c_i or c†_i to a state contributes (-1)^k, where k is the number of occupied
// modes with an index lower than i.
//
// Expressions are values; every algebraic operation returns a new Expression.
package operators
