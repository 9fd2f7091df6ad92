// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/exactdiag/report"
	"github.com/spf13/cobra"
)

func newPlotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "plot RESULTS",
		Short: "Plot the Green's functions of a results file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := report.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := report.PlotGreensFunctions(res, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plot written to %s\n", out)

			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "greens_functions.png", "figure path; the extension selects the format")

	return cmd
}
