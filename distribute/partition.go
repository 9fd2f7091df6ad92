// SPDX-License-Identifier: MIT

package distribute

import (
	"fmt"
	"sort"
)

// Job is one independently computable unit.
type Job struct {
	ID         int
	Complexity int
}

// Assignment is the static job-to-rank map of one stage.
type Assignment struct {
	// PerWorker[r] lists the jobs of rank r in processing order.
	PerWorker [][]Job
	// Owner maps job ID to rank.
	Owner map[int]int
	// Load[r] is the summed complexity of rank r.
	Load []int
}

// Partition computes the longest-processing-time-first static partition.
//
// Implementation:
//   - Stage 1: reject duplicate IDs and workers < 1.
//   - Stage 2: order jobs by Complexity desc, ID asc.
//   - Stage 3: give each job to the rank with the smallest load (lowest rank
//     on ties); a job's complexity counts as at least 1.
//
// Determinism:
//   - The result depends only on (jobs as a set, workers).
//
// Complexity:
//   - Time O(J log J + J*W), Space O(J + W).
func Partition(jobs []Job, workers int) (Assignment, error) {
	if workers < 1 {
		return Assignment{}, fmt.Errorf("Partition(workers=%d): %w", workers, ErrNoWorkers)
	}
	owner := make(map[int]int, len(jobs))
	for _, j := range jobs {
		if _, dup := owner[j.ID]; dup {
			return Assignment{}, fmt.Errorf("Partition(job %d): %w", j.ID, ErrDuplicateJob)
		}
		owner[j.ID] = -1
	}

	ordered := make([]Job, len(jobs))
	copy(ordered, jobs)
	sort.Slice(ordered, func(a, b int) bool {
		if ordered[a].Complexity != ordered[b].Complexity {
			return ordered[a].Complexity > ordered[b].Complexity
		}
		return ordered[a].ID < ordered[b].ID
	})

	a := Assignment{
		PerWorker: make([][]Job, workers),
		Owner:     owner,
		Load:      make([]int, workers),
	}
	for _, j := range ordered {
		best := 0
		for r := 1; r < workers; r++ {
			if a.Load[r] < a.Load[best] {
				best = r
			}
		}
		weight := j.Complexity
		if weight < 1 {
			weight = 1
		}
		a.Load[best] += weight
		a.PerWorker[best] = append(a.PerWorker[best], j)
		a.Owner[j.ID] = best
	}

	return a, nil
}
