package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "monty [exponent]",
		Short: "Monty Hall Monte Carlo simulator",
		Long: `monty estimates the win rates of the "switch" and "stay" strategies of
the three-door game by playing 10^exponent trials across all CPUs.

The exponent defaults to 9. Half the trials switch, half stay.

Examples:
  monty                      # 10^9 trials on every CPU
  monty 6 --workers 2        # 10^6 trials on two goroutines
  monty 7 --source splitmix  # use SplitMix64 instead of XorShift128
  monty 8 --record --json    # store the run in history, print JSON`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSimulation,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(
		newVersionCmd(),
		newBenchCmd(),
		newHistoryCmd(),
		newMCPServerCmd(),
		newConfigCmd(),
	)

	return rootCmd
}
