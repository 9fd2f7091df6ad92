// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("config: invalid run file")
	// ErrUnknownPreset is returned for a term whose preset is not known.
	ErrUnknownPreset = errors.New("config: unknown interaction preset")
	// ErrUnknownSpin is returned for a spin other than up, dn or down.
	ErrUnknownSpin = errors.New("config: unknown spin")
)
