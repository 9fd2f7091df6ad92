// SPDX-License-Identifier: MIT

package index

import "errors"

var (
	// ErrUnknownIndex is returned when a label or integer index is not part
	// of the classification.
	ErrUnknownIndex = errors.New("index: unknown index")

	// ErrDuplicateIndex is returned when the same label is declared twice.
	ErrDuplicateIndex = errors.New("index: duplicate label")

	// ErrTooManyIndices is returned when more than MaxIndices labels are declared.
	ErrTooManyIndices = errors.New("index: too many single-particle indices")

	// ErrEmpty is returned when no label is declared.
	ErrEmpty = errors.New("index: no labels declared")
)
