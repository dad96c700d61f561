package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/pathutil"
	"github.com/nvandessel/monty/internal/report"
	"github.com/nvandessel/monty/internal/rng"
	"github.com/nvandessel/monty/internal/simulation"
	"github.com/nvandessel/monty/internal/telemetry"
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 0, "Worker goroutines (0 = one per CPU)")
	cmd.Flags().String("source", rng.DefaultName, "Random source: "+strings.Join(rng.Names(), ", "))
	cmd.Flags().Uint64("seed", 0, "Seed for every worker's source")
	cmd.Flags().String("trial", monty.TrialDoors, "Round implementation: doors or direct")
	cmd.Flags().Bool("sequential", false, "Play every trial on one goroutine")
	cmd.Flags().Bool("record", false, "Store the run in history")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	jsonOut, _ := cmd.Flags().GetBool("json")
	sequential, _ := cmd.Flags().GetBool("sequential")
	record, _ := cmd.Flags().GetBool("record")
	record = record || cfg.History.Enabled

	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx := cmd.Context()
	shutdown, err := telemetry.Setup(ctx, "monty", cfg.Telemetry.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer flushTelemetry(ctx, shutdown, logger)
	journal := openJournal(cfg)
	defer journal.Close()

	trials, err := monty.TrialsForExponent(cfg.Simulation.Exponent)
	if err != nil {
		return err
	}

	logger.Debug("starting run",
		"trials", trials,
		"workers", cfg.Simulation.Workers,
		"source", cfg.Simulation.Source,
		"trial", cfg.Simulation.Trial,
		"sequential", sequential,
	)

	run, err := simulation.Execute(ctx, simulation.Params{
		Trials:     trials,
		Workers:    cfg.Simulation.Workers,
		Source:     cfg.Simulation.Source,
		Seed:       cfg.Simulation.Seed,
		Trial:      cfg.Simulation.Trial,
		Sequential: sequential,
	}, logger)
	journal.Record(simulation.Event(run, err))
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if record {
		h, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer h.Close()
		id, err := h.Record(ctx, run)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		run.ID = id
		logger.Info("run recorded", "id", id, "path", pathutil.RedactPath(h.Path()))
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.NewSummary(report.Run{
			ID:      run.ID,
			Trials:  run.Trials,
			Workers: run.Workers,
			Source:  run.Source,
			Trial:   run.Trial,
			Elapsed: run.Elapsed,
		}, run.Tally))
	}
	return report.Default.Write(out, run.Tally)
}
