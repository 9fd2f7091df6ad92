// SPDX-License-Identifier: MIT

package status_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/exactdiag/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_ZeroValueIsConstructed(t *testing.T) {
	var tr status.Tracker
	assert.Equal(t, status.Constructed, tr.Stage())
	assert.True(t, tr.AtLeast(status.Constructed))
	assert.False(t, tr.AtLeast(status.Prepared))
}

func TestTracker_RequireAtLeast(t *testing.T) {
	var tr status.Tracker

	err := tr.RequireAtLeast(status.Computed, "Thing.Value")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrStatusMismatch)
	assert.Contains(t, err.Error(), "Thing.Value")

	require.NoError(t, tr.Advance(status.Prepared))
	assert.NoError(t, tr.RequireAtLeast(status.Prepared, "Thing.Lookup"))
	assert.ErrorIs(t, tr.RequireAtLeast(status.Computed, "Thing.Value"), status.ErrStatusMismatch)

	require.NoError(t, tr.Advance(status.Computed))
	assert.NoError(t, tr.RequireAtLeast(status.Computed, "Thing.Value"))
}

func TestTracker_NeverRegresses(t *testing.T) {
	var tr status.Tracker
	require.NoError(t, tr.Advance(status.Computed))
	assert.ErrorIs(t, tr.Advance(status.Prepared), status.ErrRegress)
	assert.Equal(t, status.Computed, tr.Stage())

	// re-entering the same stage is allowed
	assert.NoError(t, tr.Advance(status.Computed))
	assert.ErrorIs(t, tr.Advance(status.Stage(9)), status.ErrUnknownStage)
}

func TestStage_String(t *testing.T) {
	cases := map[status.Stage]string{
		status.Constructed: "Constructed",
		status.Prepared:    "Prepared",
		status.Computed:    "Computed",
		status.Stage(7):    "Stage(7)",
	}
	for s, want := range cases {
		assert.Equal(t, want, s.String())
	}
}

func TestTracker_ConcurrentReaders(t *testing.T) {
	var tr status.Tracker
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.RequireAtLeast(status.Prepared, "reader")
		}()
	}
	require.NoError(t, tr.Advance(status.Prepared))
	wg.Wait()
	assert.Equal(t, status.Prepared, tr.Stage())
}
