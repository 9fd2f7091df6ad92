// SPDX-License-Identifier: MIT

// Package distribute runs the per-block compute stages of the engine on a
// fixed set of workers ("ranks") with a static, load-aware partition.
//
// Model:
//   - Units of work are Jobs (a block, a block pair, a correlator part),
//     each with an integer Complexity used for balancing.
//   - Partition assigns jobs once, up front: jobs sorted by complexity
//     (descending, ID ascending on ties) go one by one to the least-loaded
//     rank (lowest rank on ties). There is no work stealing.
//   - Run starts one goroutine per rank; each rank processes its jobs in
//     order with no cross-rank communication. Run returns only after every
//     rank finished (the stage barrier). The first failure cancels the stage.
//   - Gather additionally collects one result per job into rank-local
//     buffers and, after the barrier, publishes every owner's result to the
//     caller in input job order (the broadcast step).
//   - AllReduceSum reduces per-job scalars in job order, so global sums are
//     bit-identical for any worker count.
//
// Metrics: every Driver records exactdiag_jobs_total{stage} and
// exactdiag_job_seconds{stage} in its prometheus registry.
package distribute
