// SPDX-License-Identifier: MIT

// Package thermal holds the Matsubara grids and imaginary-time checks shared
// by the correlators.
package thermal

import (
	"errors"
	"fmt"
	"math"
)

// ErrTauRange is returned for an imaginary time outside [0, β).
var ErrTauRange = errors.New("thermal: tau outside [0, beta)")

// Fermionic returns iπ(2n+1)/β.
func Fermionic(n int, beta float64) complex128 {
	return complex(0, math.Pi*float64(2*n+1)/beta)
}

// Bosonic returns 2iπn/β.
func Bosonic(n int, beta float64) complex128 {
	return complex(0, 2*math.Pi*float64(n)/beta)
}

// CheckTau returns a wrapped ErrTauRange unless 0 <= tau < beta.
func CheckTau(tau, beta float64) error {
	if tau < 0 || tau >= beta || math.IsNaN(tau) {
		return fmt.Errorf("tau=%g, beta=%g: %w", tau, beta, ErrTauRange)
	}

	return nil
}
