// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/exactdiag/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runFile = `
beta: 10
workers: 2
matsubara: 3
log: {level: error}
sites:
  - {name: A, orbitals: 1}
  - {name: B, orbitals: 1}
terms:
  - {preset: coulomb_s, site: A, u: 1, level: -0.5}
  - {preset: coulomb_s, site: B, u: 1, level: -0.5}
  - {preset: hopping, a: A, b: B, t: -1}
greens_functions:
  - {i: {site: A, spin: dn}, j: {site: A, spin: dn}}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestRunAndPlot(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(runFile), 0o600))
	results := filepath.Join(dir, "results.yaml")

	out, err := execute(t, "run", "-c", cfg, "-o", results, "--workers", "3")
	require.NoError(t, err)
	assert.Contains(t, out, results)

	res, err := report.ReadFile(results)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Workers)
	require.Len(t, res.GreensFunctions, 1)
	assert.InDelta(t, -0.253021005, res.GreensFunctions[0].Values[0].Im, 1e-8)

	fig := filepath.Join(dir, "gf.svg")
	out, err = execute(t, "plot", results, "-o", fig)
	require.NoError(t, err)
	assert.Contains(t, out, fig)
	assert.FileExists(t, fig)
}

func TestRun_Stdout(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(runFile), 0o600))
	out, err := execute(t, "run", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "greens_functions:")
}

func TestRun_InvalidOverride(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(runFile), 0o600))
	_, err := execute(t, "run", "-c", cfg, "--beta=-1")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "exactdiag dev")
}
