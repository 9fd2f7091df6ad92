// SPDX-License-Identifier: MIT

package monomial

import "errors"

var (
	// ErrNotAdjoint is returned by SetFromAdjoint when the two monomials are
	// not Hermitian conjugates of each other.
	ErrNotAdjoint = errors.New("monomial: operators are not adjoint")

	// ErrNoPart is returned when a block has no connection.
	ErrNoPart = errors.New("monomial: block has no connection")

	// ErrInconsistentTarget is returned when a monomial maps a state of one
	// block into two different blocks.
	ErrInconsistentTarget = errors.New("monomial: states of one block reach different blocks")
)
