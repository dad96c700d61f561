// Package simulation turns a resolved configuration into one executed run.
// The CLI and the MCP server both go through Execute so that a run looks
// the same in the journal and in history regardless of who started it.
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/nvandessel/monty/internal/logging"
	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/rng"
	"github.com/nvandessel/monty/internal/store"
)

// Params describes one run.
type Params struct {
	Trials  uint64
	Workers int // 0 means runtime.NumCPU()
	Source  string
	Seed    uint64
	Trial   string

	// Sequential plays every trial on the calling goroutine.
	Sequential bool
}

// Execute runs p and returns the finished run. The run is not recorded;
// callers decide whether it goes to a HistoryStore.
func Execute(ctx context.Context, p Params, logger *slog.Logger) (store.Run, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if p.Source == "" {
		p.Source = rng.DefaultName
	}
	if p.Trial == "" {
		p.Trial = monty.TrialDoors
	}
	trial, ok := monty.TrialByName(p.Trial)
	if !ok {
		return store.Run{}, fmt.Errorf("unknown trial variant %q", p.Trial)
	}

	run := store.Run{
		StartedAt: time.Now().UTC(),
		Trials:    p.Trials,
		Source:    p.Source,
		Seed:      p.Seed,
		Trial:     p.Trial,
	}

	if p.Sequential {
		src, err := rng.New(p.Source, p.Seed)
		if err != nil {
			return store.Run{}, err
		}
		run.Workers = 1
		start := time.Now()
		run.Tally = monty.NewGame(src).WithTrial(trial).Play(p.Trials)
		run.Elapsed = time.Since(start)
		logger.Debug("sequential run complete", "played", run.Tally.Total(), "elapsed", run.Elapsed)
		return run, nil
	}

	workers := p.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	factory, err := monty.NamedSource(p.Source, p.Seed)
	if err != nil {
		return store.Run{}, err
	}

	run.Workers = workers
	start := time.Now()
	tally, err := monty.RunParallel(ctx, p.Trials,
		monty.WithWorkers(workers),
		monty.WithSource(factory),
		monty.WithTrial(trial),
		monty.WithLogger(logger),
	)
	if err != nil {
		return store.Run{}, err
	}
	run.Tally = tally
	run.Elapsed = time.Since(start)
	return run, nil
}

// Event converts a finished (or failed) run into a journal entry.
func Event(run store.Run, runErr error) logging.RunEvent {
	ev := logging.RunEvent{
		Trials:    run.Trials,
		Workers:   run.Workers,
		Source:    run.Source,
		Trial:     run.Trial,
		Played:    run.Tally.Total(),
		ElapsedMS: run.Elapsed.Milliseconds(),
	}
	if sw, st, err := run.Tally.WinRates(); err == nil {
		ev.Switched = sw
		ev.Stayed = st
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	return ev
}
