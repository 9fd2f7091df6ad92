// SPDX-License-Identifier: MIT

// Package status implements the three-stage lifecycle shared by every
// computable entity of the engine (Hamiltonian, density matrix, operators,
// correlators).
//
// Stages are ordered Constructed < Prepared < Computed. A Tracker only moves
// forward; accessors guard themselves with RequireAtLeast, which returns an
// error wrapping ErrStatusMismatch instead of silently advancing the stage.
//
// Example:
//
//	var t status.Tracker
//	if err := t.RequireAtLeast(status.Computed, "Hamiltonian.GroundEnergy"); err != nil {
//		// errors.Is(err, status.ErrStatusMismatch) == true
//	}
package status
