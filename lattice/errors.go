// SPDX-License-Identifier: MIT

package lattice

import "errors"

// ErrTooFewOrbitals is returned by multi-orbital presets applied to a site
// with fewer than two orbitals.
var ErrTooFewOrbitals = errors.New("lattice: multi-orbital interaction needs at least 2 orbitals")
