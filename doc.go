// SPDX-License-Identifier: MIT

// Package exactdiag is a block-decomposed exact-diagonalization engine for
// finite fermionic lattice models.
//
// The Fock space of N single-particle modes is split into blocks of
// conserved quantum numbers, every block of the Hamiltonian is diagonalized
// independently, and thermal correlators are assembled from Lehmann sums
// over pairs (or chains) of blocks connected by the operators involved.
//
// Packages, bottom to top:
//
//	status/         Constructed -> Prepared -> Computed lifecycle guard
//	index/          (site, orbital, spin) labels <-> mode indices
//	operators/      second-quantized expressions, Jordan-Wigner signs
//	lattice/        model presets (Hubbard, Kanamori, hopping, exchange)
//	linalg/         triplet assembly, EigenSym and Jacobi diagonalizers
//	states/         Fock-state classification into quantum-number blocks
//	hamiltonian/    per-block diagonalization
//	densitymatrix/  Boltzmann weights, partition function, truncation
//	monomial/       operators rotated into the eigenbasis, block maps
//	fieldops/       c and c† for every mode
//	termlist/       ordered, merging containers of Lehmann terms
//	greensfunction/ G(iω_n), G(τ)
//	twoparticle/    two-particle Green's function χ(ω1, ω2, ω3)
//	susceptibility/ bosonic <T A B> and ensemble averages
//	distribute/     static job partition over worker ranks
//	pipeline/       one run: all stages with explicit state
//	config/, report/, cmd/exactdiag YAML run files, results, CLI
//
// Quick start:
//
//	ix, _ := index.ForSites(map[string]int{"A": 1})
//	h, _ := lattice.CoulombS(ix, "A", 1, -0.5)
//	s, _ := pipeline.New(pipeline.Model{Indices: ix, Hamiltonian: h}, 10)
//	_ = s.Run(ctx)
//	g, _ := s.GreensFunction(ctx, 0, 0)
//	v, _ := g.Matsubara(0)
package exactdiag
