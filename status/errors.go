// SPDX-License-Identifier: MIT

package status

import "errors"

var (
	// ErrStatusMismatch is returned when an operation needs a later stage
	// than the entity has reached.
	ErrStatusMismatch = errors.New("status: operation requires a later stage")

	// ErrRegress is returned by Advance when the target stage is behind the
	// current one.
	ErrRegress = errors.New("status: stage cannot move backwards")

	// ErrUnknownStage marks a Stage value outside the declared set.
	ErrUnknownStage = errors.New("status: unknown stage")
)
