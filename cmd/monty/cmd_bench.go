package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/report"
	"github.com/nvandessel/monty/internal/rng"
)

// benchSteps are the batch sizes timed with the default source.
var benchSteps = []uint64{1_000, 10_000, 100_000}

type benchResult struct {
	Group        string  `json:"group"`
	Name         string  `json:"name"`
	Trials       uint64  `json:"trials"`
	NsPerOp      int64   `json:"ns_per_op"`
	TrialsPerSec float64 `json:"trials_per_sec"`
}

type benchCase struct {
	group, name string
	source      string
	trial       monty.TrialFunc
	trials      uint64
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the sequential engine per source and batch size",
		Long: `Play fixed batches on one goroutine and report throughput.

Three groups are timed:
  steps    the default source at 1k, 10k and 100k trials
  sources  every random source at --trials
  trials   each round implementation at --trials

Each case runs --rounds times; the fastest round is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			trials, _ := cmd.Flags().GetUint64("trials")
			rounds, _ := cmd.Flags().GetInt("rounds")
			if rounds < 1 {
				return fmt.Errorf("--rounds must be at least 1")
			}

			results := make([]benchResult, 0)
			for _, c := range benchCases(trials) {
				r, err := runBench(c, rounds)
				if err != nil {
					return err
				}
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "GROUP\tNAME\tTRIALS\tTIME\tTRIALS/S\t")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\t\n",
					r.Group, r.Name, report.Default.Count(r.Trials),
					time.Duration(r.NsPerOp), report.Default.Count(uint64(r.TrialsPerSec)))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Uint64("trials", 1_000_000, "Trials per source and trial-variant case")
	cmd.Flags().Int("rounds", 3, "Timed rounds per case")

	return cmd
}

func benchCases(trials uint64) []benchCase {
	var cases []benchCase
	for _, n := range benchSteps {
		cases = append(cases, benchCase{
			group: "steps", name: report.Default.Count(n),
			source: rng.DefaultName, trial: monty.PlayTrial, trials: n,
		})
	}
	for _, name := range rng.Names() {
		cases = append(cases, benchCase{
			group: "sources", name: name,
			source: name, trial: monty.PlayTrial, trials: trials,
		})
	}
	for _, name := range []string{monty.TrialDoors, monty.TrialDirect} {
		fn, _ := monty.TrialByName(name)
		cases = append(cases, benchCase{
			group: "trials", name: name,
			source: rng.DefaultName, trial: fn, trials: trials,
		})
	}
	return cases
}

// runBench plays c rounds times on one Game and keeps the fastest round.
func runBench(c benchCase, rounds int) (benchResult, error) {
	src, err := rng.New(c.source, 0)
	if err != nil {
		return benchResult{}, err
	}
	game := monty.NewGame(src).WithTrial(c.trial)

	var best time.Duration
	for i := 0; i < rounds; i++ {
		start := time.Now()
		game.Play(c.trials)
		if d := time.Since(start); i == 0 || d < best {
			best = d
		}
	}

	r := benchResult{
		Group:   c.group,
		Name:    c.name,
		Trials:  c.trials,
		NsPerOp: best.Nanoseconds(),
	}
	if best > 0 {
		r.TrialsPerSec = float64(c.trials) / best.Seconds()
	}
	return r, nil
}
