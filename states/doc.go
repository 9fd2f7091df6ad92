// SPDX-License-Identifier: MIT

// Package states partitions the Fock space of N fermionic modes into
// invariant blocks labelled by additive conserved quantum numbers.
//
// Every mode carries a charge vector (Charges). The label of a basis state
// is the sum of the charges of its occupied modes; states sharing a label
// form a block. A Hamiltonian whose every monomial has zero net charge shift
// never connects two different blocks, which Classify verifies up front.
//
// Determinism:
//   - Blocks are numbered in order of first appearance while scanning basis
//     states in ascending order; states inside a block are ascending too.
//     The numbering is therefore a pure function of (N, charges).
//
// Operators that change the quantum numbers (c, c†) move a block with label L
// to the block labelled L + shift, see Classification.Target.
package states
