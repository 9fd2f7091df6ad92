// SPDX-License-Identifier: MIT

// Package lattice builds common model Hamiltonian terms (on-site levels,
// hopping, Hubbard and Kanamori interactions) as operator expressions.
//
// Every preset resolves physical labels through an *index.Classification and
// returns an error wrapping index.ErrUnknownIndex for labels that were never
// declared. Presets are plain functions; models are assembled by summing
// their results with operators.Expression.Add.
//
//	ix, _ := index.ForSites(map[string]int{"A": 1, "B": 1})
//	hA, _ := lattice.CoulombS(ix, "A", 1, -0.5)
//	hB, _ := lattice.CoulombS(ix, "B", 1, -0.5)
//	t, _ := lattice.Hopping(ix, "A", "B", -1)
//	h := hA.Add(hB).Add(t)
package lattice
