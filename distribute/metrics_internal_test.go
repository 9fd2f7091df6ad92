// SPDX-License-Identifier: MIT

package distribute

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CountsJobsPerStage(t *testing.T) {
	d := New(WithWorkers(2))
	js := []Job{{ID: 1, Complexity: 3}, {ID: 2, Complexity: 1}, {ID: 3, Complexity: 2}}
	_, err := d.Run(context.Background(), "hamiltonian", js, func(context.Context, int, Job) error { return nil })
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(d.metrics.jobs.WithLabelValues("hamiltonian")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.jobs.WithLabelValues("densitymatrix")))
}
