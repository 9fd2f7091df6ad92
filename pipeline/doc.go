// SPDX-License-Identifier: MIT

// Package pipeline owns one exact-diagonalization run.
//
// A Session is the explicit context of a run: it holds the state
// classification, the Hamiltonian, the density matrix, the field operator
// container and the distribution driver, and nothing is shared between
// sessions. Run executes the stages in order
//
//	classify -> Hamiltonian -> density matrix -> truncation -> c, c†
//
// after which correlators can be requested. Each correlator is computed once
// and cached for the session.
//
//	s, _ := pipeline.New(model, 10, pipeline.WithDriver(distribute.New(distribute.WithWorkers(4))))
//	_ = s.Run(ctx)
//	g, _ := s.GreensFunction(ctx, 0, 0)
//	v, _ := g.Matsubara(0)
package pipeline
