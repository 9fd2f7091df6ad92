// SPDX-License-Identifier: MIT

package states

import "errors"

var (
	// ErrInvalidBlock is returned for a block id outside [0, NumBlocks()).
	ErrInvalidBlock = errors.New("states: invalid block")

	// ErrInvalidState is returned for a basis state outside [0, 2^N) or an
	// offset outside its block.
	ErrInvalidState = errors.New("states: invalid state")

	// ErrSymmetryBroken is returned when a Hamiltonian term changes the
	// declared quantum numbers.
	ErrSymmetryBroken = errors.New("states: Hamiltonian term does not conserve the quantum numbers")

	// ErrBadCharges is returned for malformed charge tables.
	ErrBadCharges = errors.New("states: malformed charge table")

	// ErrTooManyModes is returned when the full space cannot be enumerated.
	ErrTooManyModes = errors.New("states: too many modes to enumerate")
)
