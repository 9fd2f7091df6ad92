// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults applied before the run file is read.
const (
	DefaultWorkers   = 1
	DefaultMatsubara = 16
	DefaultSolver    = SolverEigenSym
	DefaultLogLevel  = "info"
)

// Solver names.
const (
	SolverEigenSym = "eigensym"
	SolverJacobi   = "jacobi"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "EXACTDIAG"

// Site declares a lattice site and its orbital count.
type Site struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Orbitals int    `yaml:"orbitals" mapstructure:"orbitals"`
}

// Mode names one single-particle mode.
type Mode struct {
	Site    string `yaml:"site" mapstructure:"site"`
	Orbital int    `yaml:"orbital" mapstructure:"orbital"`
	Spin    string `yaml:"spin" mapstructure:"spin"`
}

// String implements fmt.Stringer.
func (m Mode) String() string { return fmt.Sprintf("%s:%d:%s", m.Site, m.Orbital, m.Spin) }

// Term is one interaction preset. Which fields are read depends on Preset;
// see Model.
type Term struct {
	Preset   string  `yaml:"preset" mapstructure:"preset"`
	Site     string  `yaml:"site,omitempty" mapstructure:"site"`
	A        string  `yaml:"a,omitempty" mapstructure:"a"`
	B        string  `yaml:"b,omitempty" mapstructure:"b"`
	U        float64 `yaml:"u,omitempty" mapstructure:"u"`
	Up       float64 `yaml:"up,omitempty" mapstructure:"up"`
	J        float64 `yaml:"j,omitempty" mapstructure:"j"`
	Level    float64 `yaml:"level,omitempty" mapstructure:"level"`
	T        float64 `yaml:"t,omitempty" mapstructure:"t"`
	Value    float64 `yaml:"value,omitempty" mapstructure:"value"`
	Orbital  int     `yaml:"orbital,omitempty" mapstructure:"orbital"`
	OrbitalA int     `yaml:"orbital_a,omitempty" mapstructure:"orbital_a"`
	OrbitalB int     `yaml:"orbital_b,omitempty" mapstructure:"orbital_b"`
	Spin     string  `yaml:"spin,omitempty" mapstructure:"spin"`
	SpinA    string  `yaml:"spin_a,omitempty" mapstructure:"spin_a"`
	SpinB    string  `yaml:"spin_b,omitempty" mapstructure:"spin_b"`
}

// GreensFunction requests G_ij.
type GreensFunction struct {
	I Mode `yaml:"i" mapstructure:"i"`
	J Mode `yaml:"j" mapstructure:"j"`
}

// TwoParticle requests <T c1 c2 c†3 c†4> on a cube of Matsubara indices.
type TwoParticle struct {
	Modes []Mode `yaml:"modes" mapstructure:"modes"`
	// Matsubara overrides the run's count for this function (it is cubed).
	Matsubara int `yaml:"matsubara,omitempty" mapstructure:"matsubara"`
}

// Quadratic is c†_Create c_Annihilate.
type Quadratic struct {
	Create     Mode `yaml:"create" mapstructure:"create"`
	Annihilate Mode `yaml:"annihilate" mapstructure:"annihilate"`
}

// Susceptibility requests <T A(τ) B>.
type Susceptibility struct {
	A                    Quadratic `yaml:"a" mapstructure:"a"`
	B                    Quadratic `yaml:"b" mapstructure:"b"`
	SubtractDisconnected bool      `yaml:"subtract_disconnected,omitempty" mapstructure:"subtract_disconnected"`
}

// Tolerances overrides engine defaults. Zero keeps the default.
type Tolerances struct {
	Pole                 float64 `yaml:"pole,omitempty" mapstructure:"pole"`
	Residue              float64 `yaml:"residue,omitempty" mapstructure:"residue"`
	ReduceResonance      float64 `yaml:"reduce_resonance,omitempty" mapstructure:"reduce_resonance"`
	Coefficient          float64 `yaml:"coefficient,omitempty" mapstructure:"coefficient"`
	MultiTermCoefficient float64 `yaml:"multi_term_coefficient,omitempty" mapstructure:"multi_term_coefficient"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json,omitempty" mapstructure:"json"`
}

// Output names result files. Empty paths are skipped.
type Output struct {
	Results string `yaml:"results,omitempty" mapstructure:"results"`
	Plot    string `yaml:"plot,omitempty" mapstructure:"plot"`
}

// RunConfig is a decoded run file.
type RunConfig struct {
	Beta       float64 `yaml:"beta" mapstructure:"beta"`
	Workers    int     `yaml:"workers" mapstructure:"workers"`
	Matsubara  int     `yaml:"matsubara" mapstructure:"matsubara"`
	Truncation float64 `yaml:"truncation,omitempty" mapstructure:"truncation"`
	Solver     string  `yaml:"solver" mapstructure:"solver"`
	Lazy       bool    `yaml:"lazy_operators,omitempty" mapstructure:"lazy_operators"`

	Tolerances Tolerances `yaml:"tolerances,omitempty" mapstructure:"tolerances"`
	Log        Log        `yaml:"log" mapstructure:"log"`

	Sites            []Site           `yaml:"sites" mapstructure:"sites"`
	Terms            []Term           `yaml:"terms" mapstructure:"terms"`
	GreensFunctions  []GreensFunction `yaml:"greens_functions,omitempty" mapstructure:"greens_functions"`
	TwoParticle      []TwoParticle    `yaml:"two_particle,omitempty" mapstructure:"two_particle"`
	Susceptibilities []Susceptibility `yaml:"susceptibilities,omitempty" mapstructure:"susceptibilities"`

	Output Output `yaml:"output,omitempty" mapstructure:"output"`
}

// Default returns a RunConfig holding only defaults.
func Default() RunConfig {
	return RunConfig{
		Workers:   DefaultWorkers,
		Matsubara: DefaultMatsubara,
		Solver:    DefaultSolver,
		Log:       Log{Level: DefaultLogLevel},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("beta", 0.0)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("matsubara", d.Matsubara)
	v.SetDefault("truncation", 0.0)
	v.SetDefault("solver", d.Solver)
	v.SetDefault("lazy_operators", false)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", false)
	v.SetDefault("output.results", "")
	v.SetDefault("output.plot", "")
}

// Load reads and validates the run file at path, applying environment
// overrides.
func Load(path string) (RunConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return RunConfig{}, fmt.Errorf("config.Load(%s): %w", path, err)
	}
	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("config.Load(%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("config.Load(%s): %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates a run file. Unknown keys are errors.
func Parse(r io.Reader) (RunConfig, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("config.Parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("config.Parse: %w", err)
	}

	return cfg, nil
}

// Encode writes cfg as YAML.
func (c RunConfig) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("RunConfig.Encode: %w", err)
	}

	return enc.Close()
}

// String returns the YAML form of c.
func (c RunConfig) String() string {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err.Error()
	}

	return buf.String()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate checks scalar ranges and that every referenced site and preset
// exists. Mode orbitals and spins are checked when the model is built.
func (c RunConfig) Validate() error {
	if !(c.Beta > 0) || !finite(c.Beta) {
		return invalid("beta=%g must be positive", c.Beta)
	}
	if c.Workers < 1 {
		return invalid("workers=%d must be >= 1", c.Workers)
	}
	if c.Matsubara < 0 {
		return invalid("matsubara=%d must be >= 0", c.Matsubara)
	}
	if c.Truncation < 0 || !finite(c.Truncation) {
		return invalid("truncation=%g must be >= 0", c.Truncation)
	}
	if c.Solver != SolverEigenSym && c.Solver != SolverJacobi {
		return invalid("solver %q", c.Solver)
	}
	for _, t := range []float64{c.Tolerances.Pole, c.Tolerances.Residue, c.Tolerances.ReduceResonance, c.Tolerances.Coefficient, c.Tolerances.MultiTermCoefficient} {
		if t < 0 || !finite(t) {
			return invalid("tolerance %g must be >= 0", t)
		}
	}
	if len(c.Sites) == 0 {
		return invalid("no sites")
	}
	known := make(map[string]bool, len(c.Sites))
	for _, s := range c.Sites {
		if s.Name == "" || s.Orbitals < 1 {
			return invalid("site %q with %d orbitals", s.Name, s.Orbitals)
		}
		if known[s.Name] {
			return invalid("duplicate site %q", s.Name)
		}
		known[s.Name] = true
	}
	for i, t := range c.Terms {
		p, ok := presets[t.Preset]
		if !ok {
			return fmt.Errorf("term %d (%q): %w: %w", i, t.Preset, ErrUnknownPreset, ErrInvalid)
		}
		for _, s := range p.sites(t) {
			if !known[s] {
				return invalid("term %d (%s): unknown site %q", i, t.Preset, s)
			}
		}
	}
	modes := func(what string, ms ...Mode) error {
		for _, m := range ms {
			if !known[m.Site] {
				return invalid("%s: unknown site %q", what, m.Site)
			}
		}
		return nil
	}
	for i, g := range c.GreensFunctions {
		if err := modes(fmt.Sprintf("greens_functions[%d]", i), g.I, g.J); err != nil {
			return err
		}
	}
	for i, g := range c.TwoParticle {
		if len(g.Modes) != 4 {
			return invalid("two_particle[%d]: %d modes, need 4", i, len(g.Modes))
		}
		if g.Matsubara < 0 {
			return invalid("two_particle[%d]: matsubara=%d", i, g.Matsubara)
		}
		if err := modes(fmt.Sprintf("two_particle[%d]", i), g.Modes...); err != nil {
			return err
		}
	}
	for i, s := range c.Susceptibilities {
		if err := modes(fmt.Sprintf("susceptibilities[%d]", i), s.A.Create, s.A.Annihilate, s.B.Create, s.B.Annihilate); err != nil {
			return err
		}
	}

	return nil
}
