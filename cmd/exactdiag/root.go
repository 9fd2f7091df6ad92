// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exactdiag",
		Short: "Exact diagonalization of fermionic lattice models",
		Long: `exactdiag diagonalizes a fermionic Hamiltonian block by block,
builds the thermal density matrix and assembles Green's functions,
two-particle functions and susceptibilities from their Lehmann sums.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newPlotCmd(), newVersionCmd())

	return root
}
