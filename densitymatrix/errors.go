// SPDX-License-Identifier: MIT

package densitymatrix

import "errors"

// ErrInvalidBeta is returned for a non-positive or non-finite β.
var ErrInvalidBeta = errors.New("densitymatrix: beta must be finite and > 0")
