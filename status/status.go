// SPDX-License-Identifier: MIT

package status

import (
	"fmt"
	"sync"
)

// Stage is a point in the Constructed -> Prepared -> Computed lifecycle.
type Stage uint8

const (
	// Constructed: the entity exists, nothing is allocated yet.
	Constructed Stage = iota
	// Prepared: structure (blocks, connections, parts) is allocated.
	Prepared
	// Computed: numerical content is available.
	Computed
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case Constructed:
		return "Constructed"
	case Prepared:
		return "Prepared"
	case Computed:
		return "Computed"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the declared stages.
func (s Stage) Valid() bool { return s <= Computed }

// Tracker holds the stage of one entity. The zero value is Constructed and
// ready to use. A Tracker is safe for concurrent readers; writers are expected
// to be the owning entity only.
type Tracker struct {
	mu    sync.RWMutex
	stage Stage
}

// Stage returns the current stage.
func (t *Tracker) Stage() Stage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.stage
}

// Advance moves the tracker to stage to. Re-entering the current stage is a
// no-op; moving backwards fails with ErrRegress.
func (t *Tracker) Advance(to Stage) error {
	if !to.Valid() {
		return fmt.Errorf("Tracker.Advance(%s): %w", to, ErrUnknownStage)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if to < t.stage {
		return fmt.Errorf("Tracker.Advance(%s -> %s): %w", t.stage, to, ErrRegress)
	}
	t.stage = to

	return nil
}

// RequireAtLeast returns nil when the tracker has reached want. Otherwise it
// returns an error naming op and both stages, wrapping ErrStatusMismatch.
func (t *Tracker) RequireAtLeast(want Stage, op string) error {
	cur := t.Stage()
	if cur >= want {
		return nil
	}

	return fmt.Errorf("%s: at %s, need %s: %w", op, cur, want, ErrStatusMismatch)
}

// AtLeast is the boolean form of RequireAtLeast.
func (t *Tracker) AtLeast(want Stage) bool { return t.Stage() >= want }
