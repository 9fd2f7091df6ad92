// SPDX-License-Identifier: MIT

package greensfunction

import "errors"

// ErrMismatchedModel is returned when the operators and the density matrix
// do not share one Hamiltonian.
var ErrMismatchedModel = errors.New("greensfunction: operators and density matrix belong to different Hamiltonians")

// ErrUnknownPair is returned by Container.Get for an index pair that was not
// registered.
var ErrUnknownPair = errors.New("greensfunction: index pair not registered")
