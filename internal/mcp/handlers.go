package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/ratelimit"
	"github.com/nvandessel/monty/internal/report"
	"github.com/nvandessel/monty/internal/simulation"
	"github.com/nvandessel/monty/internal/store"
)

const defaultHistoryLimit = 10

// registerTools registers all monty MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolSimulate,
		Description: "Run a parallel Monty Hall simulation and report switch vs stay win rates",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ratelimit.ToolHistory,
		Description: "List recorded simulation runs, newest first",
	}, s.handleHistory)
}

// auditTool logs one tool invocation.
func (s *Server) auditTool(tool string, start time.Time, err error) {
	if err != nil {
		s.logger.Warn("tool call failed", "tool", tool, "duration", time.Since(start), "error", err)
		return
	}
	s.logger.Info("tool call", "tool", tool, "duration", time.Since(start))
}

func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (_ *sdk.CallToolResult, _ SimulateOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool(ratelimit.ToolSimulate, start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolSimulate); err != nil {
		return nil, SimulateOutput{}, err
	}

	exp := s.defaults.Exponent
	if args.Exponent != nil {
		exp = *args.Exponent
	}
	if exp > s.maxExponent {
		return nil, SimulateOutput{}, fmt.Errorf("exponent %d exceeds server limit %d", exp, s.maxExponent)
	}
	trials, err := monty.TrialsForExponent(exp)
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	sim := s.defaults
	if args.Workers != nil {
		sim.Workers = *args.Workers
	}
	if sim.Workers < 0 || sim.Workers > s.maxWorkers {
		return nil, SimulateOutput{}, fmt.Errorf("workers %d outside server range 0..%d", sim.Workers, s.maxWorkers)
	}
	if args.Source != "" {
		sim.Source = args.Source
	}
	if args.Seed != nil {
		sim.Seed = *args.Seed
	}
	if args.Trial != "" {
		sim.Trial = args.Trial
	}

	run, err := simulation.Execute(ctx, simulation.Params{
		Trials:  trials,
		Workers: sim.Workers,
		Source:  sim.Source,
		Seed:    sim.Seed,
		Trial:   sim.Trial,
	}, s.logger)
	s.journal.Record(simulation.Event(run, err))
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	if s.record {
		id, err := s.history.Record(ctx, run)
		if err != nil {
			return nil, SimulateOutput{}, fmt.Errorf("failed to record run: %w", err)
		}
		run.ID = id
	}

	return nil, SimulateOutput{
		Summary: summarize(run),
		Text:    report.Default.Format(run.Tally),
	}, nil
}

func (s *Server) handleHistory(ctx context.Context, req *sdk.CallToolRequest, args HistoryInput) (_ *sdk.CallToolResult, _ HistoryOutput, retErr error) {
	start := time.Now()
	defer func() { s.auditTool(ratelimit.ToolHistory, start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolHistory); err != nil {
		return nil, HistoryOutput{}, err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	runs, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, HistoryOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}

	out := HistoryOutput{Runs: make([]report.Summary, 0, len(runs))}
	for _, r := range runs {
		out.Runs = append(out.Runs, summarize(r))
	}
	out.Count = len(out.Runs)
	return nil, out, nil
}

func summarize(r store.Run) report.Summary {
	return report.NewSummary(report.Run{
		ID:      r.ID,
		Trials:  r.Trials,
		Workers: r.Workers,
		Source:  r.Source,
		Trial:   r.Trial,
		Elapsed: r.Elapsed,
	}, r.Tally)
}
