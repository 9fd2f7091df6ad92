// SPDX-License-Identifier: MIT

package operators

import "errors"

var (
	// ErrUnsupportedExpression is returned when a single monomial is required
	// but the expression holds zero or several terms.
	ErrUnsupportedExpression = errors.New("operators: only monomial expressions are supported")

	// ErrIndexRange is returned when an expression references a mode index
	// outside [0, n).
	ErrIndexRange = errors.New("operators: mode index out of range")
)
