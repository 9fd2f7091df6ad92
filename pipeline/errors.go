// SPDX-License-Identifier: MIT

package pipeline

import "errors"

var (
	// ErrEmptyModel is returned by New for a model without indices.
	ErrEmptyModel = errors.New("pipeline: model has no indices")
	// ErrNotRun is returned by accessors of a Session whose Run did not succeed.
	ErrNotRun = errors.New("pipeline: session has not been run")
)
