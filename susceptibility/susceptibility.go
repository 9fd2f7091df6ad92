// SPDX-License-Identifier: MIT

package susceptibility

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/katalvlaran/exactdiag/termlist"
	"github.com/katalvlaran/exactdiag/thermal"
	"github.com/sirupsen/logrus"
)

// zeroFrequency is the |z| below which the zero-pole weight contributes.
const zeroFrequency = 1e-15

// Susceptibility is the Lehmann sum of <T A B>.
type Susceptibility struct {
	tracker    status.Tracker
	a, b       *monomial.Operator
	dm         *densitymatrix.DensityMatrix
	pairs      []monomial.Connection
	vanishing  bool
	terms      *termlist.List[Term]
	zeroWeight float64
	subtract   bool
	aveA, aveB float64
	opts       Options
}

// New binds A and B to dm.
func New(a, b *monomial.Operator, dm *densitymatrix.DensityMatrix, opts ...Option) (*Susceptibility, error) {
	if a.Hamiltonian() != dm.Hamiltonian() || b.Hamiltonian() != dm.Hamiltonian() {
		return nil, fmt.Errorf("susceptibility.New: %w", ErrMismatchedModel)
	}
	o := gatherOptions(opts...)

	return &Susceptibility{
		a:     a,
		b:     b,
		dm:    dm,
		terms: termlist.New[Term](termPolicy{}, termlist.Tolerances{Compare: o.resonance, Negligible: o.residue}),
		opts:  o,
	}, nil
}

// Stage returns the lifecycle stage.
func (s *Susceptibility) Stage() status.Stage { return s.tracker.Stage() }

// Prepare selects the contributing block pairs.
func (s *Susceptibility) Prepare() error {
	if s.tracker.AtLeast(status.Prepared) {
		return nil
	}
	if s.dm.Stage() < status.Computed {
		return fmt.Errorf("Susceptibility.Prepare: density matrix at %s: %w", s.dm.Stage(), status.ErrStatusMismatch)
	}
	ma, err := s.a.Mapping()
	if err != nil {
		return fmt.Errorf("Susceptibility.Prepare: %w", err)
	}
	mb, err := s.b.Mapping()
	if err != nil {
		return fmt.Errorf("Susceptibility.Prepare: %w", err)
	}
	for _, cn := range ma.Connections() {
		if mb.Left(cn.Left) != cn.Right {
			continue
		}
		if !s.dm.IsRetained(cn.Left) && !s.dm.IsRetained(cn.Right) {
			continue
		}
		s.pairs = append(s.pairs, cn)
	}
	s.vanishing = len(s.pairs) == 0
	s.opts.log.WithFields(logrus.Fields{"pairs": len(s.pairs), "vanishing": s.vanishing}).Debug("susceptibility: prepared")

	return s.tracker.Advance(status.Prepared)
}

// IsVanishing reports whether no block pair contributes.
func (s *Susceptibility) IsVanishing() bool { return s.vanishing }

type partResult struct {
	terms      termlist.Snapshot[Term]
	zeroWeight float64
}

// Compute assembles every block pair on the ranks of d.
func (s *Susceptibility) Compute(ctx context.Context, d *distribute.Driver) error {
	if err := s.tracker.RequireAtLeast(status.Prepared, "Susceptibility.Compute"); err != nil {
		return err
	}
	if s.tracker.AtLeast(status.Computed) {
		return nil
	}
	c := s.dm.Hamiltonian().States()
	jobs := make([]distribute.Job, len(s.pairs))
	for i, pr := range s.pairs {
		nl, _ := c.BlockSize(pr.Left)
		nr, _ := c.BlockSize(pr.Right)
		jobs[i] = distribute.Job{ID: i, Complexity: nl * nr}
	}
	res, err := distribute.Gather(ctx, d, "susceptibility", jobs,
		func(_ context.Context, _ int, job distribute.Job) (partResult, error) {
			return s.computePart(s.pairs[job.ID])
		})
	if err != nil {
		return fmt.Errorf("Susceptibility.Compute: %w", err)
	}
	zero := make([]float64, len(res))
	for i, r := range res {
		s.terms.Merge(termlist.Restore[Term](termPolicy{}, r.terms))
		zero[i] = r.zeroWeight
	}
	s.zeroWeight = distribute.AllReduceSum(zero)
	s.opts.log.WithFields(logrus.Fields{"terms": s.terms.Len(), "zero_pole_weight": s.zeroWeight}).Debug("susceptibility: computed")

	return s.tracker.Advance(status.Computed)
}

func (s *Susceptibility) computePart(pr monomial.Connection) (partResult, error) {
	var none partResult
	ap, err := s.a.PartFromRight(pr.Right)
	if err != nil {
		return none, err
	}
	bp, err := s.b.PartFromRight(pr.Left)
	if err != nil {
		return none, err
	}
	h := s.dm.Hamiltonian()
	outer, err := h.Part(pr.Left)
	if err != nil {
		return none, err
	}
	inner, err := h.Part(pr.Right)
	if err != nil {
		return none, err
	}
	wo, err := s.dm.Part(pr.Left)
	if err != nil {
		return none, err
	}
	wi, err := s.dm.Part(pr.Right)
	if err != nil {
		return none, err
	}

	local := termlist.New[Term](termPolicy{}, s.terms.Tolerances())
	zero := 0.0
	rows, _ := ap.Dims()
	for o := 0; o < rows; o++ {
		for _, el := range ap.Row(o) {
			i := el.Index
			bv := bp.At(i, o)
			if bv == 0 {
				continue
			}
			pole := inner.EigenValue(i) - outer.EigenValue(o)
			if math.Abs(pole) < s.opts.resonance {
				zero += el.Value * bv * wo.Weight(o)
				continue
			}
			r := el.Value * bv * (wo.Weight(o) - wi.Weight(i))
			if math.Abs(r) > s.opts.residue {
				local.Add(Term{Pole: pole, Residue: r})
			}
		}
	}

	return partResult{terms: local.Snapshot(), zeroWeight: zero}, nil
}

// SubtractDisconnected makes every later evaluation subtract the
// disconnected part <A><B>, given as a and b.
func (s *Susceptibility) SubtractDisconnected(a, b float64) {
	s.subtract, s.aveA, s.aveB = true, a, b
}

// SubtractDisconnectedAverages computes <A> and <B> with EnsembleAverage and
// subtracts them as SubtractDisconnected does.
func (s *Susceptibility) SubtractDisconnectedAverages() error {
	a, err := EnsembleAverage(s.a, s.dm)
	if err != nil {
		return err
	}
	b, err := EnsembleAverage(s.b, s.dm)
	if err != nil {
		return err
	}
	s.SubtractDisconnected(a, b)

	return nil
}

// Value returns χ(z). The zero-pole weight and the disconnected part only
// contribute at z = 0.
func (s *Susceptibility) Value(z complex128) (complex128, error) {
	if err := s.tracker.RequireAtLeast(status.Computed, "Susceptibility.Value"); err != nil {
		return 0, err
	}
	var v complex128
	beta := s.dm.Beta()
	atZero := cmplx.Abs(z) < zeroFrequency
	if !s.vanishing {
		v = s.terms.Sum(func(t Term) complex128 { return t.At(z) })
		if atZero {
			v += complex(s.zeroWeight*beta, 0)
		}
	}
	if s.subtract && atZero {
		v -= complex(s.aveA*s.aveB*beta, 0)
	}

	return v, nil
}

// Matsubara returns χ(iν_n) with ν_n = 2πn/β.
func (s *Susceptibility) Matsubara(n int) (complex128, error) {
	return s.Value(thermal.Bosonic(n, s.dm.Beta()))
}

// Tau returns χ(τ) for 0 <= τ < β.
func (s *Susceptibility) Tau(tau float64) (float64, error) {
	if err := s.tracker.RequireAtLeast(status.Computed, "Susceptibility.Tau"); err != nil {
		return 0, err
	}
	beta := s.dm.Beta()
	if err := thermal.CheckTau(tau, beta); err != nil {
		return 0, fmt.Errorf("Susceptibility.Tau: %w", err)
	}
	v := 0.0
	if !s.vanishing {
		v = real(s.terms.Sum(func(t Term) complex128 { return complex(t.Tau(tau, beta), 0) })) + s.zeroWeight
	}
	if s.subtract {
		v -= s.aveA * s.aveB
	}

	return v, nil
}

// ZeroPoleWeight returns the accumulated weight of vanishing poles.
func (s *Susceptibility) ZeroPoleWeight() (float64, error) {
	if err := s.tracker.RequireAtLeast(status.Computed, "Susceptibility.ZeroPoleWeight"); err != nil {
		return 0, err
	}

	return s.zeroWeight, nil
}

// Terms returns the merged terms ordered by pole.
func (s *Susceptibility) Terms() ([]Term, error) {
	if err := s.tracker.RequireAtLeast(status.Computed, "Susceptibility.Terms"); err != nil {
		return nil, err
	}

	return s.terms.Terms(), nil
}
