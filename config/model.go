// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/exactdiag/distribute"
	"github.com/katalvlaran/exactdiag/greensfunction"
	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/lattice"
	"github.com/katalvlaran/exactdiag/linalg"
	"github.com/katalvlaran/exactdiag/operators"
	"github.com/katalvlaran/exactdiag/pipeline"
	"github.com/katalvlaran/exactdiag/susceptibility"
	"github.com/katalvlaran/exactdiag/twoparticle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// ParseSpin accepts up, dn and down in any case.
func ParseSpin(s string) (index.Spin, error) {
	switch strings.ToLower(s) {
	case "up", "u":
		return index.Up, nil
	case "dn", "down", "d":
		return index.Down, nil
	}

	return 0, fmt.Errorf("config.ParseSpin(%q): %w", s, ErrUnknownSpin)
}

// Resolve returns the mode index of m in ix.
func (m Mode) Resolve(ix *index.Classification) (int, error) {
	s, err := ParseSpin(m.Spin)
	if err != nil {
		return 0, err
	}
	i, err := ix.Lookup(m.Site, m.Orbital, s)
	if err != nil {
		return 0, fmt.Errorf("Mode.Resolve(%s): %w", m, err)
	}

	return i, nil
}

// Expression returns c†_Create c_Annihilate.
func (q Quadratic) Expression(ix *index.Classification) (operators.Expression, error) {
	i, err := q.Create.Resolve(ix)
	if err != nil {
		return operators.Expression{}, err
	}
	j, err := q.Annihilate.Resolve(ix)
	if err != nil {
		return operators.Expression{}, err
	}

	return operators.Cdag(i).Mul(operators.C(j)), nil
}

type preset struct {
	sites func(Term) []string
	build func(*index.Classification, Term) (operators.Expression, error)
}

func onSite(t Term) []string { return []string{t.Site} }
func onBond(t Term) []string { return []string{t.A, t.B} }

func spinPair(t Term) (index.Spin, index.Spin, error) {
	a, err := ParseSpin(t.SpinA)
	if err != nil {
		return 0, 0, err
	}
	b, err := ParseSpin(t.SpinB)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

var presets = map[string]preset{
	"coulomb_s": {onSite, func(ix *index.Classification, t Term) (operators.Expression, error) {
		return lattice.CoulombS(ix, t.Site, t.U, t.Level)
	}},
	"coulomb_p": {onSite, func(ix *index.Classification, t Term) (operators.Expression, error) {
		return lattice.CoulombP(ix, t.Site, t.U, t.Up, t.J, t.Level)
	}},
	"hopping": {onBond, func(ix *index.Classification, t Term) (operators.Expression, error) {
		return lattice.Hopping(ix, t.A, t.B, t.T)
	}},
	"hopping_spin": {onBond, func(ix *index.Classification, t Term) (operators.Expression, error) {
		sa, sb, err := spinPair(t)
		if err != nil {
			return operators.Expression{}, err
		}
		return lattice.HoppingSpin(ix, t.A, t.B, t.T, t.OrbitalA, t.OrbitalB, sa, sb)
	}},
	"level": {onSite, func(ix *index.Classification, t Term) (operators.Expression, error) {
		s, err := ParseSpin(t.Spin)
		if err != nil {
			return operators.Expression{}, err
		}
		return lattice.Level(ix, t.Site, t.Value, t.Orbital, s)
	}},
	"site_level": {onSite, func(ix *index.Classification, t Term) (operators.Expression, error) {
		return lattice.SiteLevel(ix, t.Site, t.Value)
	}},
	"nup_ndown": {onBond, func(ix *index.Classification, t Term) (operators.Expression, error) {
		sa, sb, err := spinPair(t)
		if err != nil {
			return operators.Expression{}, err
		}
		return lattice.NupNdown(ix, t.A, t.B, t.Value, t.OrbitalA, t.OrbitalB, sa, sb)
	}},
	"spinflip": {onSite, func(ix *index.Classification, t Term) (operators.Expression, error) {
		sa, sb, err := spinPair(t)
		if err != nil {
			return operators.Expression{}, err
		}
		return lattice.Spinflip(ix, t.Site, t.Value, t.OrbitalA, t.OrbitalB, sa, sb)
	}},
	"pair_hopping": {onSite, func(ix *index.Classification, t Term) (operators.Expression, error) {
		sa, sb, err := spinPair(t)
		if err != nil {
			return operators.Expression{}, err
		}
		return lattice.PairHopping(ix, t.Site, t.Value, t.OrbitalA, t.OrbitalB, sa, sb)
	}},
	"splus_sminus": {onBond, func(ix *index.Classification, t Term) (operators.Expression, error) {
		return lattice.SplusSminus(ix, t.A, t.B, t.Value, t.Orbital)
	}},
	"sminus_splus": {onBond, func(ix *index.Classification, t Term) (operators.Expression, error) {
		return lattice.SminusSplus(ix, t.A, t.B, t.Value, t.Orbital)
	}},
}

// Presets returns the known preset names in ascending order.
func Presets() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Model builds the index classification and the Hamiltonian expression.
func (c RunConfig) Model() (pipeline.Model, error) {
	orbitals := make(map[string]int, len(c.Sites))
	for _, s := range c.Sites {
		orbitals[s.Name] = s.Orbitals
	}
	ix, err := index.ForSites(orbitals)
	if err != nil {
		return pipeline.Model{}, fmt.Errorf("RunConfig.Model: %w", err)
	}
	var h operators.Expression
	for i, t := range c.Terms {
		p, ok := presets[t.Preset]
		if !ok {
			return pipeline.Model{}, fmt.Errorf("RunConfig.Model: term %d (%q): %w", i, t.Preset, ErrUnknownPreset)
		}
		e, err := p.build(ix, t)
		if err != nil {
			return pipeline.Model{}, fmt.Errorf("RunConfig.Model: term %d (%s): %w", i, t.Preset, err)
		}
		h = h.Add(e)
	}

	return pipeline.Model{Indices: ix, Hamiltonian: h}, nil
}

// SessionOptions translates the numerical settings into pipeline options.
// Driver metrics go to reg when it is not nil.
func (c RunConfig) SessionOptions(log *logrus.Entry, reg *prometheus.Registry) []pipeline.Option {
	dopts := []distribute.Option{distribute.WithWorkers(c.Workers), distribute.WithLogger(log)}
	if reg != nil {
		dopts = append(dopts, distribute.WithRegistry(reg))
	}
	opts := []pipeline.Option{
		pipeline.WithDriver(distribute.New(dopts...)),
		pipeline.WithLogger(log),
	}
	if c.Solver == SolverJacobi {
		opts = append(opts, pipeline.WithSolver(linalg.NewJacobi()))
	}
	if c.Truncation > 0 {
		opts = append(opts, pipeline.WithTruncation(c.Truncation))
	}
	if c.Lazy {
		opts = append(opts, pipeline.WithLazyOperators())
	}

	t := c.Tolerances
	var gf []greensfunction.Option
	var tp []twoparticle.Option
	var chi []susceptibility.Option
	if t.Pole > 0 {
		gf = append(gf, greensfunction.WithPoleTolerance(t.Pole))
	}
	if t.Residue > 0 {
		gf = append(gf, greensfunction.WithResidueTolerance(t.Residue))
		chi = append(chi, susceptibility.WithResidueTolerance(t.Residue))
	}
	if t.ReduceResonance > 0 {
		tp = append(tp, twoparticle.WithReduceResonanceTolerance(t.ReduceResonance))
		chi = append(chi, susceptibility.WithResonanceTolerance(t.ReduceResonance))
	}
	if t.Coefficient > 0 {
		tp = append(tp, twoparticle.WithCoefficientTolerance(t.Coefficient))
	}
	if t.MultiTermCoefficient > 0 {
		tp = append(tp, twoparticle.WithMultiTermCoefficientTolerance(t.MultiTermCoefficient))
	}

	return append(opts,
		pipeline.WithGreensFunctionOptions(gf...),
		pipeline.WithTwoParticleOptions(tp...),
		pipeline.WithSusceptibilityOptions(chi...),
	)
}
