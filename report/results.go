// SPDX-License-Identifier: MIT

package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/exactdiag/config"
	"github.com/katalvlaran/exactdiag/pipeline"
	"gopkg.in/yaml.v3"
)

// lowestLevels bounds the spectrum stored in Results.
const lowestLevels = 16

// Point is a value at one Matsubara index.
type Point struct {
	N  int     `yaml:"n"`
	Re float64 `yaml:"re"`
	Im float64 `yaml:"im"`
}

// Point3 is a two-particle value at (n1, n2, n3).
type Point3 struct {
	N  [3]int  `yaml:"n,flow"`
	Re float64 `yaml:"re"`
	Im float64 `yaml:"im"`
}

// GreensFunction holds G_ij(iω_n) for n = 0..Matsubara-1.
type GreensFunction struct {
	I         string  `yaml:"i"`
	J         string  `yaml:"j"`
	Vanishing bool    `yaml:"vanishing,omitempty"`
	Terms     int     `yaml:"terms"`
	Values    []Point `yaml:"values,omitempty"`
}

// TwoParticle holds χ on the cube of Matsubara indices.
type TwoParticle struct {
	Modes     []string `yaml:"modes,flow"`
	Vanishing bool     `yaml:"vanishing,omitempty"`
	Terms     int      `yaml:"terms"`
	Values    []Point3 `yaml:"values,omitempty"`
}

// Susceptibility holds χ_AB(iν_n) for n = 0..Matsubara-1.
type Susceptibility struct {
	A              string  `yaml:"a"`
	B              string  `yaml:"b"`
	Vanishing      bool    `yaml:"vanishing,omitempty"`
	Terms          int     `yaml:"terms"`
	ZeroPoleWeight float64 `yaml:"zero_pole_weight"`
	AverageA       float64 `yaml:"average_a"`
	AverageB       float64 `yaml:"average_b"`
	Values         []Point `yaml:"values,omitempty"`
}

// Results is the document written by the run command.
type Results struct {
	RunID             string           `yaml:"run_id"`
	Beta              float64          `yaml:"beta"`
	Workers           int              `yaml:"workers"`
	Modes             int              `yaml:"modes"`
	Blocks            int              `yaml:"blocks"`
	RetainedBlocks    int              `yaml:"retained_blocks"`
	GroundEnergy      float64          `yaml:"ground_energy"`
	PartitionFunction float64          `yaml:"partition_function"`
	AverageEnergy     float64          `yaml:"average_energy"`
	LowestLevels      []float64        `yaml:"lowest_levels,flow"`
	GreensFunctions   []GreensFunction `yaml:"greens_functions,omitempty"`
	TwoParticle       []TwoParticle    `yaml:"two_particle,omitempty"`
	Susceptibilities  []Susceptibility `yaml:"susceptibilities,omitempty"`
}

// Collect computes every correlator requested by cfg on s, which must have
// been run, and evaluates it at cfg.Matsubara frequencies.
func Collect(ctx context.Context, s *pipeline.Session, cfg config.RunConfig) (Results, error) {
	h, err := s.Hamiltonian()
	if err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	dm, err := s.DensityMatrix()
	if err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	st, err := s.States()
	if err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	ix := s.Model().Indices

	res := Results{
		RunID:          s.RunID().String(),
		Beta:           s.Beta(),
		Workers:        s.Driver().Workers(),
		Modes:          ix.Len(),
		Blocks:         st.NumBlocks(),
		RetainedBlocks: len(dm.RetainedBlocks()),
	}
	if res.GroundEnergy, err = h.GroundEnergy(); err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	if res.PartitionFunction, err = dm.PartitionFunction(); err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	if res.AverageEnergy, err = dm.AverageEnergy(); err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	levels, err := h.Spectrum()
	if err != nil {
		return Results{}, fmt.Errorf("report.Collect: %w", err)
	}
	if len(levels) > lowestLevels {
		levels = levels[:lowestLevels]
	}
	res.LowestLevels = levels

	for _, req := range cfg.GreensFunctions {
		g, err := greensFunction(ctx, s, req, cfg.Matsubara)
		if err != nil {
			return Results{}, fmt.Errorf("report.Collect: %w", err)
		}
		res.GreensFunctions = append(res.GreensFunctions, g)
	}
	for _, req := range cfg.TwoParticle {
		n := req.Matsubara
		if n == 0 {
			n = cfg.Matsubara
		}
		g, err := twoParticle(ctx, s, req, n)
		if err != nil {
			return Results{}, fmt.Errorf("report.Collect: %w", err)
		}
		res.TwoParticle = append(res.TwoParticle, g)
	}
	for _, req := range cfg.Susceptibilities {
		x, err := susceptibility(ctx, s, req, cfg.Matsubara)
		if err != nil {
			return Results{}, fmt.Errorf("report.Collect: %w", err)
		}
		res.Susceptibilities = append(res.Susceptibilities, x)
	}

	return res, nil
}

func greensFunction(ctx context.Context, s *pipeline.Session, req config.GreensFunction, count int) (GreensFunction, error) {
	ix := s.Model().Indices
	i, err := req.I.Resolve(ix)
	if err != nil {
		return GreensFunction{}, err
	}
	j, err := req.J.Resolve(ix)
	if err != nil {
		return GreensFunction{}, err
	}
	g, err := s.GreensFunction(ctx, i, j)
	if err != nil {
		return GreensFunction{}, err
	}
	out := GreensFunction{I: req.I.String(), J: req.J.String(), Vanishing: g.IsVanishing()}
	terms, err := g.Terms()
	if err != nil {
		return GreensFunction{}, err
	}
	out.Terms = len(terms)
	for n := 0; n < count; n++ {
		v, err := g.Matsubara(n)
		if err != nil {
			return GreensFunction{}, err
		}
		out.Values = append(out.Values, Point{N: n, Re: real(v), Im: imag(v)})
	}

	return out, nil
}

func twoParticle(ctx context.Context, s *pipeline.Session, req config.TwoParticle, count int) (TwoParticle, error) {
	ix := s.Model().Indices
	var idx [4]int
	out := TwoParticle{}
	for k, m := range req.Modes {
		i, err := m.Resolve(ix)
		if err != nil {
			return TwoParticle{}, err
		}
		idx[k] = i
		out.Modes = append(out.Modes, m.String())
	}
	g, err := s.TwoParticle(ctx, idx[0], idx[1], idx[2], idx[3])
	if err != nil {
		return TwoParticle{}, err
	}
	out.Vanishing = g.IsVanishing()
	out.Terms = g.NumTerms()
	for n1 := 0; n1 < count; n1++ {
		for n2 := 0; n2 < count; n2++ {
			for n3 := 0; n3 < count; n3++ {
				v, err := g.Matsubara(n1, n2, n3)
				if err != nil {
					return TwoParticle{}, err
				}
				out.Values = append(out.Values, Point3{N: [3]int{n1, n2, n3}, Re: real(v), Im: imag(v)})
			}
		}
	}

	return out, nil
}

func susceptibility(ctx context.Context, s *pipeline.Session, req config.Susceptibility, count int) (Susceptibility, error) {
	ix := s.Model().Indices
	a, err := req.A.Expression(ix)
	if err != nil {
		return Susceptibility{}, err
	}
	b, err := req.B.Expression(ix)
	if err != nil {
		return Susceptibility{}, err
	}
	x, err := s.Susceptibility(ctx, a, b)
	if err != nil {
		return Susceptibility{}, err
	}
	out := Susceptibility{A: a.String(), B: b.String(), Vanishing: x.IsVanishing()}
	if out.AverageA, err = s.Average(ctx, a); err != nil {
		return Susceptibility{}, err
	}
	if out.AverageB, err = s.Average(ctx, b); err != nil {
		return Susceptibility{}, err
	}
	if req.SubtractDisconnected {
		x.SubtractDisconnected(out.AverageA, out.AverageB)
	}
	terms, err := x.Terms()
	if err != nil {
		return Susceptibility{}, err
	}
	out.Terms = len(terms)
	if out.ZeroPoleWeight, err = x.ZeroPoleWeight(); err != nil {
		return Susceptibility{}, err
	}
	for n := 0; n < count; n++ {
		v, err := x.Matsubara(n)
		if err != nil {
			return Susceptibility{}, err
		}
		out.Values = append(out.Values, Point{N: n, Re: real(v), Im: imag(v)})
	}

	return out, nil
}

// Write encodes r as YAML.
func Write(w io.Writer, r Results) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}

	return enc.Close()
}

// Read decodes a document written by Write.
func Read(rd io.Reader) (Results, error) {
	var r Results
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return Results{}, fmt.Errorf("report.Read: %w", err)
	}

	return r, nil
}

// WriteFile writes r to path.
func WriteFile(path string, r Results) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteFile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report.WriteFile: %w", cerr)
		}
	}()

	return Write(f, r)
}

// ReadFile reads a document from path.
func ReadFile(path string) (Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return Results{}, fmt.Errorf("report.ReadFile: %w", err)
	}
	defer f.Close()

	return Read(f)
}
