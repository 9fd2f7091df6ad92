// SPDX-License-Identifier: MIT

package twoparticle

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/exactdiag/densitymatrix"
	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/monomial"
	"github.com/katalvlaran/exactdiag/states"
	"github.com/katalvlaran/exactdiag/status"
	"github.com/katalvlaran/exactdiag/termlist"
	"github.com/katalvlaran/exactdiag/thermal"
	"github.com/sirupsen/logrus"
)

// Permutation is an ordering of (c1, c2, c†3) with its sign.
type Permutation struct {
	Perm [3]int
	Sign float64
}

// Permutations lists the six orderings of three operators.
var Permutations = [6]Permutation{
	{Perm: [3]int{0, 1, 2}, Sign: 1},
	{Perm: [3]int{0, 2, 1}, Sign: -1},
	{Perm: [3]int{1, 0, 2}, Sign: -1},
	{Perm: [3]int{1, 2, 0}, Sign: 1},
	{Perm: [3]int{2, 0, 1}, Sign: 1},
	{Perm: [3]int{2, 1, 0}, Sign: -1},
}

// Part is one closed chain of blocks under one permutation.
type Part struct {
	perm     int
	blocks   [4]states.BlockID
	nonRes   *termlist.List[NonResonant]
	resonant *termlist.List[Resonant]
}

// Permutation returns the operator ordering of the part.
func (p *Part) Permutation() Permutation { return Permutations[p.perm] }

// Blocks returns (S1, S2, S3, S4).
func (p *Part) Blocks() [4]states.BlockID { return p.blocks }

// NumTerms returns the number of non-resonant and resonant terms.
func (p *Part) NumTerms() (nonResonant, resonant int) {
	if p.nonRes == nil {
		return 0, 0
	}

	return p.nonRes.Len(), p.resonant.Len()
}

func (p *Part) value(z1, z2, z3 complex128, kronecker float64) complex128 {
	zs := [3]complex128{z1, z2, -z3}
	perm := Permutations[p.perm].Perm
	a, b, c := zs[perm[0]], zs[perm[1]], zs[perm[2]]

	return p.nonRes.Sum(func(t NonResonant) complex128 { return t.At(a, b, c) }) +
		p.resonant.Sum(func(t Resonant) complex128 { return t.At(a, b, c, kronecker) })
}

// TwoParticleGF is the Lehmann sum of <T c1 c2 c†3 c†4>.
type TwoParticleGF struct {
	tracker   status.Tracker
	ops       [3]*monomial.Operator // c1, c2, c†3
	cdag4     *monomial.Operator
	dm        *densitymatrix.DensityMatrix
	parts     []*Part
	vanishing bool
	opts      Options
}

// New binds the four operators to dm. All must share one Hamiltonian.
func New(c1, c2, cdag3, cdag4 *monomial.Operator, dm *densitymatrix.DensityMatrix, opts ...Option) (*TwoParticleGF, error) {
	h := dm.Hamiltonian()
	for _, o := range []*monomial.Operator{c1, c2, cdag3, cdag4} {
		if o.Hamiltonian() != h {
			return nil, fmt.Errorf("twoparticle.New: %w", ErrMismatchedModel)
		}
	}

	return &TwoParticleGF{
		ops:   [3]*monomial.Operator{c1, c2, cdag3},
		cdag4: cdag4,
		dm:    dm,
		opts:  gatherOptions(opts...),
	}, nil
}

// DensityMatrix returns the density matrix g is bound to.
func (g *TwoParticleGF) DensityMatrix() *densitymatrix.DensityMatrix { return g.dm }

// Stage returns the lifecycle stage.
func (g *TwoParticleGF) Stage() status.Stage { return g.tracker.Stage() }

// Prepare enumerates the closed block chains of every permutation. The
// operators must be prepared and the density matrix computed.
func (g *TwoParticleGF) Prepare() error {
	if g.tracker.AtLeast(status.Prepared) {
		return nil
	}
	if g.dm.Stage() < status.Computed {
		return fmt.Errorf("TwoParticleGF.Prepare: density matrix at %s: %w", g.dm.Stage(), status.ErrStatusMismatch)
	}
	m4, err := g.cdag4.Mapping()
	if err != nil {
		return fmt.Errorf("TwoParticleGF.Prepare: %w", err)
	}
	var maps [3]*monomial.Bimap
	for i, o := range g.ops {
		if maps[i], err = o.Mapping(); err != nil {
			return fmt.Errorf("TwoParticleGF.Prepare: %w", err)
		}
	}

	for pi, p := range Permutations {
		o1, o2, o3 := maps[p.Perm[0]], maps[p.Perm[1]], maps[p.Perm[2]]
		for _, cn := range m4.Connections() {
			s1, s4 := cn.Right, cn.Left
			s3 := o3.Left(s4)
			if s3 == states.InvalidBlock {
				continue
			}
			s2 := o2.Left(s3)
			if s2 == states.InvalidBlock {
				continue
			}
			if o1.Left(s2) != s1 {
				continue
			}
			if !g.dm.IsRetained(s1) && !g.dm.IsRetained(s2) && !g.dm.IsRetained(s3) && !g.dm.IsRetained(s4) {
				continue
			}
			g.parts = append(g.parts, &Part{perm: pi, blocks: [4]states.BlockID{s1, s2, s3, s4}})
		}
	}
	g.vanishing = len(g.parts) == 0
	g.opts.log.WithFields(logrus.Fields{"parts": len(g.parts), "vanishing": g.vanishing}).Debug("twoparticle: prepared")

	return g.tracker.Advance(status.Prepared)
}

// IsVanishing reports whether no chain contributes. It is meaningful once
// Prepare has succeeded.
func (g *TwoParticleGF) IsVanishing() bool { return g.vanishing }

// Parts returns the contributing chains.
func (g *TwoParticleGF) Parts() []*Part { return append([]*Part(nil), g.parts...) }

type partTerms struct {
	nonRes   termlist.Snapshot[NonResonant]
	resonant termlist.Snapshot[Resonant]
}

// Compute builds the terms of every part on the ranks of d.
func (g *TwoParticleGF) Compute(ctx context.Context, d *distribute.Driver) error {
	if err := g.tracker.RequireAtLeast(status.Prepared, "TwoParticleGF.Compute"); err != nil {
		return err
	}
	if g.tracker.AtLeast(status.Computed) {
		return nil
	}
	c := g.dm.Hamiltonian().States()
	jobs := make([]distribute.Job, len(g.parts))
	for i, p := range g.parts {
		cost := 1
		for _, b := range p.blocks {
			n, _ := c.BlockSize(b)
			cost *= n
		}
		jobs[i] = distribute.Job{ID: i, Complexity: cost}
	}
	res, err := distribute.Gather(ctx, d, "twoparticle", jobs,
		func(_ context.Context, _ int, job distribute.Job) (partTerms, error) {
			return g.computePart(g.parts[job.ID])
		})
	if err != nil {
		return fmt.Errorf("TwoParticleGF.Compute: %w", err)
	}
	nr, rs := 0, 0
	for i, p := range g.parts {
		p.nonRes = termlist.Restore[NonResonant](NonResonantPolicy{}, res[i].nonRes)
		p.resonant = termlist.Restore[Resonant](ResonantPolicy{}, res[i].resonant)
		nr += p.nonRes.Len()
		rs += p.resonant.Len()
	}
	g.opts.log.WithFields(logrus.Fields{"nonresonant_terms": nr, "resonant_terms": rs}).Debug("twoparticle: computed")

	return g.tracker.Advance(status.Computed)
}

type chainLevel struct {
	energies []float64
	weights  []float64
}

func (g *TwoParticleGF) level(b states.BlockID) (chainLevel, error) {
	hp, err := g.dm.Hamiltonian().Part(b)
	if err != nil {
		return chainLevel{}, err
	}
	wp, err := g.dm.Part(b)
	if err != nil {
		return chainLevel{}, err
	}

	return chainLevel{energies: hp.EigenValues(), weights: wp.Weights()}, nil
}

func (g *TwoParticleGF) computePart(p *Part) (partTerms, error) {
	var none partTerms
	perm := Permutations[p.perm]
	s1, s2, s3, s4 := p.blocks[0], p.blocks[1], p.blocks[2], p.blocks[3]
	o1, err := g.ops[perm.Perm[0]].PartFromRight(s2)
	if err != nil {
		return none, err
	}
	o2, err := g.ops[perm.Perm[1]].PartFromRight(s3)
	if err != nil {
		return none, err
	}
	o3, err := g.ops[perm.Perm[2]].PartFromRight(s4)
	if err != nil {
		return none, err
	}
	cx4, err := g.cdag4.PartFromRight(s1)
	if err != nil {
		return none, err
	}
	var lv [4]chainLevel
	for n, b := range p.blocks {
		if lv[n], err = g.level(b); err != nil {
			return none, err
		}
	}

	tol := termlist.Tolerances{Compare: g.opts.resonance, Negligible: g.opts.coeff}
	nonRes := termlist.New[NonResonant](NonResonantPolicy{}, tol)
	resonant := termlist.New[Resonant](ResonantPolicy{}, tol)
	rows, _ := o1.Dims()
	for i := 0; i < rows; i++ {
		for _, e1 := range o1.Row(i) {
			j := e1.Index
			for _, e2 := range o2.Row(j) {
				k := e2.Index
				for _, e3 := range o3.Row(k) {
					l := e3.Index
					x4 := cx4.At(l, i)
					if x4 == 0 {
						continue
					}
					coeff := perm.Sign * e1.Value * e2.Value * e3.Value * x4
					if math.Abs(coeff) < g.opts.multiTerm {
						continue
					}
					g.addMultiterm(nonRes, resonant, coeff,
						[4]float64{lv[0].energies[i], lv[1].energies[j], lv[2].energies[k], lv[3].energies[l]},
						[4]float64{lv[0].weights[i], lv[1].weights[j], lv[2].weights[k], lv[3].weights[l]})
				}
			}
		}
	}

	return partTerms{nonRes: nonRes.Snapshot(), resonant: resonant.Snapshot()}, nil
}

// addMultiterm expands one matrix-element product C over the energies
// (Ei, Ej, Ek, El) and weights (wi, wj, wk, wl) of a chain:
//
//	-C(wj+wk) / ((z1-P1)(z2-P2)(z3-P3))
//	+C(wi+wl) / ((z1-P1)(z1+z2+z3-P1-P2-P3)(z3-P3))
//
// plus the resonant terms (Cβwi, C(wk-wi)) when P1+P2 ≈ 0 and
// (-Cβwj, C(wj-wl)) when P2+P3 ≈ 0.
func (g *TwoParticleGF) addMultiterm(nonRes *termlist.List[NonResonant], resonant *termlist.List[Resonant], c float64, e, w [4]float64) {
	poles := [3]float64{e[1] - e[0], e[2] - e[1], e[3] - e[2]}
	beta := g.dm.Beta()

	if cz2 := -c * (w[1] + w[2]); math.Abs(cz2) > g.opts.coeff {
		nonRes.Add(NonResonant{Coeff: cz2, Poles: poles, Weight: 1})
	}
	if cz4 := c * (w[0] + w[3]); math.Abs(cz4) > g.opts.coeff {
		nonRes.Add(NonResonant{Coeff: cz4, Poles: poles, Z4: true, Weight: 1})
	}
	if math.Abs(poles[0]+poles[1]) < g.opts.resonance {
		resonant.Add(Resonant{ResCoeff: c * beta * w[0], NonResCoeff: c * (w[2] - w[0]), Poles: poles, Z1Z2: true, Weight: 1})
	}
	if math.Abs(poles[1]+poles[2]) < g.opts.resonance {
		resonant.Add(Resonant{ResCoeff: -c * beta * w[1], NonResCoeff: c * (w[1] - w[3]), Poles: poles, Weight: 1})
	}
}

// Value returns χ(z1, z2; z3). A vanishing function returns zero.
func (g *TwoParticleGF) Value(z1, z2, z3 complex128) (complex128, error) {
	if err := g.tracker.RequireAtLeast(status.Computed, "TwoParticleGF.Value"); err != nil {
		return 0, err
	}
	if g.vanishing {
		return 0, nil
	}
	var sum complex128
	for _, p := range g.parts {
		sum += p.value(z1, z2, z3, g.opts.resonance)
	}

	return sum, nil
}

// Matsubara returns χ at fermionic Matsubara indices (n1, n2; n3).
func (g *TwoParticleGF) Matsubara(n1, n2, n3 int) (complex128, error) {
	beta := g.dm.Beta()

	return g.Value(thermal.Fermionic(n1, beta), thermal.Fermionic(n2, beta), thermal.Fermionic(n3, beta))
}

// NumTerms returns the total number of stored terms.
func (g *TwoParticleGF) NumTerms() int {
	n := 0
	for _, p := range g.parts {
		a, b := p.NumTerms()
		n += a + b
	}

	return n
}
