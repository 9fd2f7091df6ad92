// SPDX-License-Identifier: MIT

package linalg

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned for 0×0 inputs.
	ErrEmpty = errors.New("linalg: empty matrix")

	// ErrOutOfRange indicates a row or column outside the matrix.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrAsymmetry signals |A[i,j]-A[j,i]| above the allowed epsilon.
	ErrAsymmetry = errors.New("linalg: matrix is not symmetric within eps")

	// ErrNaNInf signals a non-finite entry.
	ErrNaNInf = errors.New("linalg: NaN or Inf encountered")

	// ErrEigenFailed indicates that an eigen routine did not converge.
	ErrEigenFailed = errors.New("linalg: eigen decomposition failed")

	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")
)

// operation tags used in wrapped errors
const (
	opEigenSym  = "EigenSym.Diagonalize"
	opJacobi    = "Jacobi.Diagonalize"
	opTriplets  = "Triplets"
	opSymmetric = "Triplets.Symmetric"
	opSort      = "SortEigenpairs"
)

func linalgErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
