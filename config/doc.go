// SPDX-License-Identifier: MIT

// Package config reads run files for the exactdiag binary.
//
// A run file is YAML:
//
//	beta: 10
//	workers: 4
//	matsubara: 16
//	sites:
//	  - {name: A, orbitals: 1}
//	  - {name: B, orbitals: 1}
//	terms:
//	  - {preset: coulomb_s, site: A, u: 1, level: -0.5}
//	  - {preset: coulomb_s, site: B, u: 1, level: -0.5}
//	  - {preset: hopping, a: A, b: B, t: -1}
//	greens_functions:
//	  - {i: {site: A, spin: dn}, j: {site: A, spin: dn}}
//	output:
//	  results: results.yaml
//
// Load reads through viper, so every scalar key can be overridden from the
// environment with the EXACTDIAG_ prefix (EXACTDIAG_BETA, EXACTDIAG_WORKERS,
// EXACTDIAG_LOG_LEVEL, ...). Parse decodes strictly with yaml.v3 and rejects
// unknown keys.
package config
