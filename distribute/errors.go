// SPDX-License-Identifier: MIT

package distribute

import "errors"

var (
	// ErrWorkerFailed wraps the first job failure of a stage.
	ErrWorkerFailed = errors.New("distribute: worker failed")

	// ErrDuplicateJob is returned when two jobs share an ID.
	ErrDuplicateJob = errors.New("distribute: duplicate job id")

	// ErrNoWorkers is returned for a non-positive worker count.
	ErrNoWorkers = errors.New("distribute: need at least one worker")
)
