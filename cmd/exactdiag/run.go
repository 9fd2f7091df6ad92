// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/katalvlaran/exactdiag/config"
	"github.com/katalvlaran/exactdiag/logging"
	"github.com/katalvlaran/exactdiag/pipeline"
	"github.com/katalvlaran/exactdiag/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runFlags struct {
	config   string
	workers  int
	beta     float64
	results  string
	plot     string
	logLevel string
	logJSON  bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the stages described by a run file and write the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "exactdiag.yaml", "run file")
	fl.IntVarP(&f.workers, "workers", "w", 0, "number of ranks (overrides the run file)")
	fl.Float64Var(&f.beta, "beta", 0, "inverse temperature (overrides the run file)")
	fl.StringVarP(&f.results, "output", "o", "", "results file (overrides output.results)")
	fl.StringVar(&f.plot, "plot", "", "Green's function figure (overrides output.plot)")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (overrides log.level)")
	fl.BoolVar(&f.logJSON, "log-json", false, "log as JSON")

	return cmd
}

func applyFlags(cmd *cobra.Command, f runFlags, cfg *config.RunConfig) error {
	fl := cmd.Flags()
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("beta") {
		cfg.Beta = f.beta
	}
	if fl.Changed("output") {
		cfg.Output.Results = f.results
	}
	if fl.Changed("plot") {
		cfg.Output.Plot = f.plot
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-json") {
		cfg.Log.JSON = f.logJSON
	}

	return cfg.Validate()
}

func runRun(cmd *cobra.Command, f runFlags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, f, &cfg); err != nil {
		return err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	model, err := cfg.Model()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	s, err := pipeline.New(model, cfg.Beta, cfg.SessionOptions(log, reg)...)
	if err != nil {
		return err
	}
	log = log.WithField("run_id", s.RunID().String())

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		return err
	}
	res, err := report.Collect(ctx, s, cfg)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"elapsed":         time.Since(start).String(),
		"jobs":            jobsTotal(reg),
		"ground_energy":   res.GroundEnergy,
		"greens_function": len(res.GreensFunctions),
	}).Info("exactdiag: run finished")

	if cfg.Output.Results == "" {
		if err := report.Write(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		if err := report.WriteFile(cfg.Output.Results, res); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "results written to %s\n", cfg.Output.Results)
	}
	if cfg.Output.Plot != "" {
		if err := report.PlotGreensFunctions(res, cfg.Output.Plot); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "plot written to %s\n", cfg.Output.Plot)
	}

	return nil
}

// jobsTotal sums the job counters of every stage in reg.
func jobsTotal(reg *prometheus.Registry) float64 {
	families, err := reg.Gather()
	if err != nil {
		return 0
	}
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "exactdiag_jobs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}

	return total
}
