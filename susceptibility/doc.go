// SPDX-License-Identifier: MIT

// Package susceptibility assembles bosonic two-operator correlators
//
//	χ(τ) = <T A(τ) B(0)>,   χ(iν_n) with ν_n = 2πn/β,
//
// for rotated monomial operators A and B, and thermal averages <A> of a
// single rotated operator.
//
// A block pair contributes when A maps R to L, B maps L back to R and either
// block is retained. For eigenstates o of L and i of R the pole is
// P = E_i - E_o. Pairs with |P| below the resonance tolerance feed a
// zero-frequency weight Σ A·B·w_o; the others give terms -R/(z - P) with
// R = A(o,i)·B(i,o)·(w_o - w_i).
package susceptibility
