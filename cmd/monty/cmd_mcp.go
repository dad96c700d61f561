package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/monty/internal/config"
	"github.com/nvandessel/monty/internal/mcp"
	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/telemetry"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server over stdio",
		Long: `Serve the monty_simulate and monty_history tools over the Model
Context Protocol on stdin/stdout. Logs go to stderr.

Simulation defaults come from the usual config file and MONTY_* variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxExp, _ := cmd.Flags().GetUint("max-exponent")
			if maxExp > monty.MaxExponent {
				return fmt.Errorf("--max-exponent must be at most %d", monty.MaxExponent)
			}
			maxWorkers, _ := cmd.Flags().GetInt("max-workers")
			if maxWorkers < 0 || maxWorkers > config.MaxWorkers {
				return fmt.Errorf("--max-workers must be between 0 and %d", config.MaxWorkers)
			}

			cfg, err := loadSettings(cmd, nil)
			if err != nil {
				return err
			}
			record, _ := cmd.Flags().GetBool("record")

			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			shutdown, err := telemetry.Setup(ctx, "monty-mcp", cfg.Telemetry.Endpoint)
			if err != nil {
				return fmt.Errorf("failed to set up telemetry: %w", err)
			}
			defer flushTelemetry(ctx, shutdown, logger)

			h, err := openHistory(cfg)
			if err != nil {
				return err
			}

			journal := openJournal(cfg)
			defer journal.Close()

			server, err := mcp.NewServer(&mcp.Config{
				Name:        "monty",
				Version:     version,
				Simulation:  cfg.Simulation,
				MaxExponent: maxExp,
				MaxWorkers:  maxWorkers,
				History:     h,
				Record:      record || cfg.History.Enabled,
				Logger:      logger,
				Journal:     journal,
			})
			if err != nil {
				h.Close()
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer server.Close()

			return server.Run(ctx)
		},
	}

	cmd.Flags().Uint("max-exponent", mcp.DefaultMaxExponent, "Largest exponent a client may request")
	cmd.Flags().Int("max-workers", 0, "Largest worker count a client may request (0 = one per CPU)")
	cmd.Flags().Bool("record", false, "Store every simulate call in history")

	return cmd
}
