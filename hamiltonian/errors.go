// SPDX-License-Identifier: MIT

package hamiltonian

import "errors"

var (
	// ErrNotHermitian is returned when a block matrix is not symmetric.
	ErrNotHermitian = errors.New("hamiltonian: block matrix is not symmetric")

	// ErrLeavesBlock is returned when a term maps a basis state outside its
	// block, i.e. the classification does not match the expression.
	ErrLeavesBlock = errors.New("hamiltonian: term maps a state outside its block")
)
