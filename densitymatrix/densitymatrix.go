// SPDX-License-Identifier: MIT

package densitymatrix

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/hamiltonian"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Part holds the weights of one block.
type Part struct {
	block    states.BlockID
	energies []float64
	weights  []float64
	retained bool
	cutoff   float64
}

// Block returns the block id.
func (p *Part) Block() states.BlockID { return p.block }

// Weight returns the weight of the i-th eigenstate of the block.
func (p *Part) Weight(i int) float64 { return p.weights[i] }

// Weights returns a copy of the block weights.
func (p *Part) Weights() []float64 { return append([]float64(nil), p.weights...) }

// Sum returns the total weight of the block.
func (p *Part) Sum() float64 { return floats.Sum(p.weights) }

// MaxWeight returns the largest weight of the block.
func (p *Part) MaxWeight() float64 { return floats.Max(p.weights) }

// AverageEnergy returns Σ w_i E_i over the retained states of the block.
func (p *Part) AverageEnergy() float64 {
	if !p.retained {
		return 0
	}
	sum := 0.0
	for i, w := range p.weights {
		if w >= p.cutoff {
			sum += w * p.energies[i]
		}
	}

	return sum
}

// RetainedStates returns the number of states whose weight reaches the last
// truncation tolerance, or zero for a dropped block.
func (p *Part) RetainedStates() int {
	if !p.retained {
		return 0
	}
	n := 0
	for _, w := range p.weights {
		if w >= p.cutoff {
			n++
		}
	}

	return n
}

// Retained reports whether the block survived truncation.
func (p *Part) Retained() bool { return p.retained }

// DensityMatrix owns one Part per block.
type DensityMatrix struct {
	tracker status.Tracker
	h       *hamiltonian.Hamiltonian
	beta    float64
	parts   []*Part
	z       float64
	opts    Options
}

// New binds a density matrix to h at inverse temperature beta.
func New(h *hamiltonian.Hamiltonian, beta float64, opts ...Option) (*DensityMatrix, error) {
	if !(beta > 0) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("densitymatrix.New(beta=%g): %w", beta, ErrInvalidBeta)
	}

	return &DensityMatrix{h: h, beta: beta, opts: gatherOptions(opts...)}, nil
}

// Beta returns the inverse temperature.
func (dm *DensityMatrix) Beta() float64 { return dm.beta }

// Stage returns the lifecycle stage.
func (dm *DensityMatrix) Stage() status.Stage { return dm.tracker.Stage() }

// Hamiltonian returns the Hamiltonian the weights are derived from.
func (dm *DensityMatrix) Hamiltonian() *hamiltonian.Hamiltonian { return dm.h }

// Prepare allocates one Part per block. The Hamiltonian must be computed.
func (dm *DensityMatrix) Prepare() error {
	if dm.tracker.AtLeast(status.Prepared) {
		return nil
	}
	if dm.h.Stage() < status.Computed {
		return fmt.Errorf("DensityMatrix.Prepare: hamiltonian at %s, need %s: %w", dm.h.Stage(), status.Computed, status.ErrStatusMismatch)
	}
	c := dm.h.States()
	dm.parts = make([]*Part, c.NumBlocks())
	for _, b := range c.Blocks() {
		dm.parts[b] = &Part{block: b, retained: true, cutoff: math.Inf(-1)}
	}

	return dm.tracker.Advance(status.Prepared)
}

// blockWeights is the unnormalized result of one block job.
type blockWeights struct {
	energies []float64
	weights  []float64
	sum      float64
}

// Compute evaluates the unnormalized block weights on the ranks of d, reduces
// Z over blocks in block order and normalizes. Requires Prepared and a
// computed Hamiltonian.
func (dm *DensityMatrix) Compute(ctx context.Context, d *distribute.Driver) error {
	if err := dm.tracker.RequireAtLeast(status.Prepared, "DensityMatrix.Compute"); err != nil {
		return err
	}
	if dm.tracker.AtLeast(status.Computed) {
		return nil
	}
	e0, err := dm.h.GroundEnergy()
	if err != nil {
		return fmt.Errorf("DensityMatrix.Compute: %w", err)
	}

	jobs := make([]distribute.Job, len(dm.parts))
	for i := range dm.parts {
		size, _ := dm.h.States().BlockSize(states.BlockID(i))
		jobs[i] = distribute.Job{ID: i, Complexity: size}
	}
	blocks, err := distribute.Gather(ctx, d, "densitymatrix", jobs,
		func(_ context.Context, _ int, job distribute.Job) (blockWeights, error) {
			hp, err := dm.h.Part(states.BlockID(job.ID))
			if err != nil {
				return blockWeights{}, err
			}
			energies := hp.EigenValues()
			weights := make([]float64, len(energies))
			for k, e := range energies {
				weights[k] = math.Exp(-dm.beta * (e - e0))
			}

			return blockWeights{energies: energies, weights: weights, sum: floats.Sum(weights)}, nil
		})
	if err != nil {
		return fmt.Errorf("DensityMatrix.Compute: %w", err)
	}

	sums := make([]float64, len(dm.parts))
	for i, p := range dm.parts {
		p.energies, p.weights = blocks[i].energies, blocks[i].weights
		sums[i] = blocks[i].sum
	}
	dm.z = distribute.AllReduceSum(sums)
	for _, p := range dm.parts {
		floats.Scale(1/dm.z, p.weights)
	}
	dm.opts.log.WithFields(logrus.Fields{"beta": dm.beta, "Z": dm.z}).Info("densitymatrix: computed")

	return dm.tracker.Advance(status.Computed)
}

// PartitionFunction returns Z measured from the ground energy,
// Σ exp(-β(E - E0)). The full partition function is Z·exp(-βE0).
func (dm *DensityMatrix) PartitionFunction() (float64, error) {
	if err := dm.tracker.RequireAtLeast(status.Computed, "DensityMatrix.PartitionFunction"); err != nil {
		return 0, err
	}

	return dm.z, nil
}

// Part returns the weights of block b.
func (dm *DensityMatrix) Part(b states.BlockID) (*Part, error) {
	if err := dm.tracker.RequireAtLeast(status.Computed, "DensityMatrix.Part"); err != nil {
		return nil, err
	}
	if b < 0 || int(b) >= len(dm.parts) {
		return nil, fmt.Errorf("DensityMatrix.Part(%d): %w", b, states.ErrInvalidBlock)
	}

	return dm.parts[b], nil
}

// Weight returns the weight of the eigenstate labelled by basis state s.
func (dm *DensityMatrix) Weight(s states.State) (float64, error) {
	if err := dm.tracker.RequireAtLeast(status.Computed, "DensityMatrix.Weight"); err != nil {
		return 0, err
	}
	b, off, err := dm.h.States().Locate(s)
	if err != nil {
		return 0, fmt.Errorf("DensityMatrix.Weight: %w", err)
	}

	return dm.parts[b].weights[off], nil
}

// AverageEnergy returns the thermal average of the Hamiltonian over the
// retained states.
func (dm *DensityMatrix) AverageEnergy() (float64, error) {
	if err := dm.tracker.RequireAtLeast(status.Computed, "DensityMatrix.AverageEnergy"); err != nil {
		return 0, err
	}
	per := make([]float64, len(dm.parts))
	for i, p := range dm.parts {
		per[i] = p.AverageEnergy()
	}

	return distribute.AllReduceSum(per), nil
}

// TruncateBlocks drops states whose weight is below tol, and every block left
// without a retained state. It can be called repeatedly; each call
// re-evaluates every block from the full weights. When verbose is set the
// retained block and state counts are logged at Info level.
func (dm *DensityMatrix) TruncateBlocks(tol float64, verbose bool) error {
	if err := dm.tracker.RequireAtLeast(status.Computed, "DensityMatrix.TruncateBlocks"); err != nil {
		return err
	}
	blocks, nstates := 0, 0
	for _, p := range dm.parts {
		p.cutoff, p.retained = tol, true
		if n := p.RetainedStates(); n > 0 {
			blocks++
			nstates += n
		} else {
			p.retained = false
		}
	}
	if verbose {
		dm.opts.log.WithFields(logrus.Fields{
			"tolerance":       tol,
			"blocks_retained": blocks,
			"states_retained": nstates,
		}).Info("densitymatrix: truncated")
	}

	return nil
}

// IsRetained reports whether block b survived truncation. It is true for
// every valid block before TruncateBlocks is called, and false for invalid
// ids.
func (dm *DensityMatrix) IsRetained(b states.BlockID) bool {
	if b < 0 || int(b) >= len(dm.parts) {
		return false
	}

	return dm.parts[b].retained
}

// RetainedBlocks returns the ids of retained blocks in ascending order.
func (dm *DensityMatrix) RetainedBlocks() []states.BlockID {
	var out []states.BlockID
	for _, p := range dm.parts {
		if p.retained {
			out = append(out, p.block)
		}
	}

	return out
}
