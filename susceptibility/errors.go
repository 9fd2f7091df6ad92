// SPDX-License-Identifier: MIT

package susceptibility

import "errors"

// ErrMismatchedModel is returned when the operators and the density matrix
// do not share one Hamiltonian.
var ErrMismatchedModel = errors.New("susceptibility: operators and density matrix belong to different Hamiltonians")
