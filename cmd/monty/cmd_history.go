package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvandessel/monty/internal/report"
	"github.com/nvandessel/monty/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List recorded runs",
		Long: `List runs stored with --record (or history.enabled), newest first.

With an ID, print the full results of that run.

Examples:
  monty history               # last 10 runs
  monty history --limit 0     # every run
  monty history 3f2a...       # one run in detail`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadSettings(cmd, nil)
			if err != nil {
				return err
			}
			h, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer h.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				run, err := h.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("run %s: %w", args[0], err)
				}
				if jsonOut {
					return json.NewEncoder(out).Encode(summaryOf(*run))
				}
				fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.StartedAt.Format("2006-01-02 15:04:05 MST"))
				fmt.Fprintf(out, "%s trials, %d workers, source %s (seed %d), trial %s, %v\n\n",
					report.Default.Count(run.Trials), run.Workers, run.Source, run.Seed, run.Trial, run.Elapsed)
				return report.Default.Write(out, run.Tally)
			}

			runs, err := h.List(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if jsonOut {
				summaries := make([]report.Summary, 0, len(runs))
				for _, r := range runs {
					summaries = append(summaries, summaryOf(r))
				}
				return json.NewEncoder(out).Encode(map[string]any{
					"runs":  summaries,
					"count": len(summaries),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded. Use --record to store a run.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tTRIALS\tWORKERS\tSOURCE\tSWITCH\tSTAY")
			for _, r := range runs {
				sw, st := rates(r)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					report.Default.Count(r.Trials), r.Workers, r.Source, sw, st)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum runs to list (0 = all)")

	return cmd
}

func summaryOf(r store.Run) report.Summary {
	return report.NewSummary(report.Run{
		ID:      r.ID,
		Trials:  r.Trials,
		Workers: r.Workers,
		Source:  r.Source,
		Trial:   r.Trial,
		Elapsed: r.Elapsed,
	}, r.Tally)
}

func rates(r store.Run) (switched, stayed string) {
	sw, st, err := r.Tally.WinRates()
	if err != nil {
		return "n/a", "n/a"
	}
	return fmt.Sprintf("%.4f%%", sw*100), fmt.Sprintf("%.4f%%", st*100)
}
