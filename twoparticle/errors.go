// SPDX-License-Identifier: MIT

package twoparticle

import "errors"

// ErrMismatchedModel is returned when the operators and the density matrix
// do not share one Hamiltonian.
var ErrMismatchedModel = errors.New("twoparticle: operators and density matrix belong to different Hamiltonians")

// ErrUnknownQuadruple is returned by Container.Get for an index quadruple
// that was not registered.
var ErrUnknownQuadruple = errors.New("twoparticle: index quadruple not registered")
