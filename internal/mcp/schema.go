package mcp

import "github.com/nvandessel/monty/internal/report"

// SimulateInput defines the input for the monty_simulate tool.
type SimulateInput struct {
	Exponent *uint   `json:"exponent,omitempty" jsonschema:"Run 10^exponent trials (default from server config)"`
	Workers  *int    `json:"workers,omitempty" jsonschema:"Worker goroutines (0 = one per CPU, capped by the server)"`
	Source   string  `json:"source,omitempty" jsonschema:"Random source: xorshift, splitmix, pcg or step"`
	Seed     *uint64 `json:"seed,omitempty" jsonschema:"Seed applied to every worker's source"`
	Trial    string  `json:"trial,omitempty" jsonschema:"Round implementation: doors or direct"`
}

// SimulateOutput defines the output for the monty_simulate tool.
type SimulateOutput struct {
	Summary report.Summary `json:"summary" jsonschema:"Run result with per-strategy counts and win rates"`
	Text    string         `json:"text" jsonschema:"Human-readable results block"`
}

// HistoryInput defines the input for the monty_history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum runs to return, newest first (default 10)"`
}

// HistoryOutput defines the output for the monty_history tool.
type HistoryOutput struct {
	Runs  []report.Summary `json:"runs" jsonschema:"Recorded runs, newest first"`
	Count int              `json:"count" jsonschema:"Number of runs returned"`
}
