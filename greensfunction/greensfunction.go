// SPDX-License-Identifier: MIT

package greensfunction

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/katalvlaran/exactdiag/termlist"
	"github.com/katalvlaran/exactdiag/thermal"
	"github.com/sirupsen/logrus"
)

// GreensFunction is the Lehmann sum of <T c c†>.
type GreensFunction struct {
	tracker   status.Tracker
	c, cdag   *monomial.Operator
	dm        *densitymatrix.DensityMatrix
	pairs     []monomial.Connection
	vanishing bool
	terms     *termlist.List[Term]
	opts      Options
}

// New binds an annihilation operator c and a creation operator cdag to dm.
// All three must share one Hamiltonian.
func New(c, cdag *monomial.Operator, dm *densitymatrix.DensityMatrix, opts ...Option) (*GreensFunction, error) {
	if c.Hamiltonian() != dm.Hamiltonian() || cdag.Hamiltonian() != dm.Hamiltonian() {
		return nil, fmt.Errorf("greensfunction.New: %w", ErrMismatchedModel)
	}
	o := gatherOptions(opts...)

	return &GreensFunction{
		c:     c,
		cdag:  cdag,
		dm:    dm,
		terms: termlist.New[Term](TermPolicy{}, o.tolerances()),
		opts:  o,
	}, nil
}

func (o Options) tolerances() termlist.Tolerances {
	return termlist.Tolerances{Compare: o.poleTol, Negligible: o.residueTol}
}

// DensityMatrix returns the density matrix g is bound to.
func (g *GreensFunction) DensityMatrix() *densitymatrix.DensityMatrix { return g.dm }

// Stage returns the lifecycle stage.
func (g *GreensFunction) Stage() status.Stage { return g.tracker.Stage() }

// Prepare selects the contributing block pairs. Both operators must be
// prepared and the density matrix computed; truncate the density matrix
// before calling Prepare for truncation to take effect.
func (g *GreensFunction) Prepare() error {
	if g.tracker.AtLeast(status.Prepared) {
		return nil
	}
	mc, err := g.c.Mapping()
	if err != nil {
		return fmt.Errorf("GreensFunction.Prepare: %w", err)
	}
	mx, err := g.cdag.Mapping()
	if err != nil {
		return fmt.Errorf("GreensFunction.Prepare: %w", err)
	}
	if g.dm.Stage() < status.Computed {
		return fmt.Errorf("GreensFunction.Prepare: density matrix at %s: %w", g.dm.Stage(), status.ErrStatusMismatch)
	}
	for _, cn := range mc.Connections() {
		if mx.Left(cn.Left) != cn.Right {
			continue
		}
		if !g.dm.IsRetained(cn.Left) && !g.dm.IsRetained(cn.Right) {
			continue
		}
		g.pairs = append(g.pairs, cn)
	}
	g.vanishing = len(g.pairs) == 0
	g.opts.log.WithFields(logrus.Fields{"pairs": len(g.pairs), "vanishing": g.vanishing}).Debug("greensfunction: prepared")

	return g.tracker.Advance(status.Prepared)
}

// IsVanishing reports whether no block pair contributes. It is meaningful
// once Prepare has succeeded.
func (g *GreensFunction) IsVanishing() bool { return g.vanishing }

// NumParts returns the number of contributing block pairs.
func (g *GreensFunction) NumParts() int { return len(g.pairs) }

// Compute assembles the terms of every block pair on the ranks of d. Each
// pair builds its own term list; the lists are merged in pair order.
func (g *GreensFunction) Compute(ctx context.Context, d *distribute.Driver) error {
	if err := g.tracker.RequireAtLeast(status.Prepared, "GreensFunction.Compute"); err != nil {
		return err
	}
	if g.tracker.AtLeast(status.Computed) {
		return nil
	}
	c := g.dm.Hamiltonian().States()
	jobs := make([]distribute.Job, len(g.pairs))
	for i, pr := range g.pairs {
		nl, _ := c.BlockSize(pr.Left)
		nr, _ := c.BlockSize(pr.Right)
		jobs[i] = distribute.Job{ID: i, Complexity: nl * nr}
	}
	snaps, err := distribute.Gather(ctx, d, "greensfunction", jobs,
		func(_ context.Context, _ int, job distribute.Job) (termlist.Snapshot[Term], error) {
			return g.computePart(g.pairs[job.ID])
		})
	if err != nil {
		return fmt.Errorf("GreensFunction.Compute: %w", err)
	}
	for _, s := range snaps {
		g.terms.Merge(termlist.Restore[Term](TermPolicy{}, s))
	}
	g.opts.log.WithField("terms", g.terms.Len()).Debug("greensfunction: computed")

	return g.tracker.Advance(status.Computed)
}

func (g *GreensFunction) computePart(pr monomial.Connection) (termlist.Snapshot[Term], error) {
	var none termlist.Snapshot[Term]
	cp, err := g.c.PartFromRight(pr.Right)
	if err != nil {
		return none, err
	}
	xp, err := g.cdag.PartFromRight(pr.Left)
	if err != nil {
		return none, err
	}
	h := g.dm.Hamiltonian()
	hl, err := h.Part(pr.Left)
	if err != nil {
		return none, err
	}
	hr, err := h.Part(pr.Right)
	if err != nil {
		return none, err
	}
	wl, err := g.dm.Part(pr.Left)
	if err != nil {
		return none, err
	}
	wr, err := g.dm.Part(pr.Right)
	if err != nil {
		return none, err
	}

	local := termlist.New[Term](TermPolicy{}, g.opts.tolerances())
	rows, _ := cp.Dims()
	for o := 0; o < rows; o++ {
		eo, wo := hl.EigenValue(o), wl.Weight(o)
		for _, el := range cp.Row(o) {
			i := el.Index
			x := xp.At(i, o)
			if x == 0 {
				continue
			}
			r := el.Value * x * (wo + wr.Weight(i))
			if math.Abs(r) > g.opts.residueTol {
				local.Add(Term{Pole: hr.EigenValue(i) - eo, Residue: r})
			}
		}
	}

	return local.Snapshot(), nil
}

// Value returns G(z). A vanishing function returns zero.
func (g *GreensFunction) Value(z complex128) (complex128, error) {
	if err := g.tracker.RequireAtLeast(status.Computed, "GreensFunction.Value"); err != nil {
		return 0, err
	}
	if g.vanishing {
		return 0, nil
	}

	return g.terms.Sum(func(t Term) complex128 { return t.At(z) }), nil
}

// Matsubara returns G(iω_n) with ω_n = π(2n+1)/β.
func (g *GreensFunction) Matsubara(n int) (complex128, error) {
	return g.Value(thermal.Fermionic(n, g.dm.Beta()))
}

// Tau returns G(τ) for 0 <= τ < β.
func (g *GreensFunction) Tau(tau float64) (float64, error) {
	if err := g.tracker.RequireAtLeast(status.Computed, "GreensFunction.Tau"); err != nil {
		return 0, err
	}
	beta := g.dm.Beta()
	if err := thermal.CheckTau(tau, beta); err != nil {
		return 0, fmt.Errorf("GreensFunction.Tau: %w", err)
	}
	if g.vanishing {
		return 0, nil
	}
	res := g.terms.Sum(func(t Term) complex128 { return complex(t.Tau(tau, beta), 0) })

	return real(res), nil
}

// Terms returns the merged terms ordered by pole.
func (g *GreensFunction) Terms() ([]Term, error) {
	if err := g.tracker.RequireAtLeast(status.Computed, "GreensFunction.Terms"); err != nil {
		return nil, err
	}

	return g.terms.Terms(), nil
}

// Snapshot returns the merged terms together with their tolerances.
func (g *GreensFunction) Snapshot() (termlist.Snapshot[Term], error) {
	if err := g.tracker.RequireAtLeast(status.Computed, "GreensFunction.Snapshot"); err != nil {
		return termlist.Snapshot[Term]{}, err
	}

	return g.terms.Snapshot(), nil
}

// Blocks returns the contributing block pairs, c mapping Right to Left.
func (g *GreensFunction) Blocks() []monomial.Connection {
	return append([]monomial.Connection(nil), g.pairs...)
}
