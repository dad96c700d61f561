package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nvandessel/monty/internal/config"
	"github.com/nvandessel/monty/internal/logging"
	"github.com/nvandessel/monty/internal/pathutil"
	"github.com/nvandessel/monty/internal/store"
)

// loadSettings resolves configuration: defaults, config file, environment,
// then any flags the user set explicitly.
func loadSettings(cmd *cobra.Command, args []string) (*config.MontyConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) > 0 {
		exp, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid exponent %q: must be a non-negative integer", args[0])
		}
		cfg.Simulation.Exponent = uint(exp)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Simulation.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("source") {
		cfg.Simulation.Source, _ = flags.GetString("source")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("trial") {
		cfg.Simulation.Trial, _ = flags.GetString("trial")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.MontyConfig, w io.Writer) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, w)
}

// flushTelemetry shuts down the trace exporter. A failed flush loses spans,
// not results, so it is only logged.
func flushTelemetry(ctx context.Context, shutdown func(context.Context) error, logger *slog.Logger) {
	if err := shutdown(ctx); err != nil {
		logger.Debug("telemetry shutdown failed", "error", err)
	}
}

// openJournal returns the run journal for cfg's log level, or nil.
func openJournal(cfg *config.MontyConfig) *logging.Journal {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	return logging.NewJournal(dir, cfg.Logging.Level)
}

func openHistory(cfg *config.MontyConfig) (*store.SQLiteHistoryStore, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	h, err := store.NewSQLiteHistoryStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", pathutil.RedactPath(path), err)
	}
	return h, nil
}
