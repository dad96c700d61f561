package monty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/monty/internal/rng"
)

// ErrInvalidWorkers is returned when a worker count below one is requested.
var ErrInvalidWorkers = errors.New("worker count must be at least 1")

// WorkerError reports the worker that aborted a parallel run.
type WorkerError struct {
	Worker int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// SourceFactory builds a fresh source for one worker.
type SourceFactory func() (rng.Source, error)

// NamedSource returns a factory for the registered source name. Every call
// yields an identically seeded instance.
func NamedSource(name string, seed uint64) (SourceFactory, error) {
	if !rng.Valid(name) {
		return nil, fmt.Errorf("%w: %q", rng.ErrUnknownSource, name)
	}
	return func() (rng.Source, error) {
		return rng.New(name, seed)
	}, nil
}

func defaultSource() (rng.Source, error) {
	return rng.NewXorShift(0), nil
}

type options struct {
	workers int
	source  SourceFactory
	trial   TrialFunc
	logger  *slog.Logger
}

// Option configures RunParallel.
type Option func(*options)

// WithWorkers overrides the worker count (default runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithSource sets the per-worker source factory.
func WithSource(f SourceFactory) Option {
	return func(o *options) {
		if f != nil {
			o.source = f
		}
	}
}

// WithTrial sets the round implementation used by every worker.
func WithTrial(fn TrialFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.trial = fn
		}
	}
}

// WithLogger sets the logger for worker lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// RunParallel splits totalTrials evenly across workers, plays each share on
// its own goroutine with its own source and Game, and sums the partial
// tallies. The totalTrials%workers remainder is not played.
//
// A worker that panics or cannot build its source fails the whole run with
// a *WorkerError; no partial tally is returned. ctx is used for tracing
// only: a started run always completes.
func RunParallel(ctx context.Context, totalTrials uint64, opts ...Option) (Tally, error) {
	o := options{
		workers: runtime.NumCPU(),
		source:  defaultSource,
		trial:   PlayTrial,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		return Tally{}, fmt.Errorf("%w: got %d", ErrInvalidWorkers, o.workers)
	}

	perWorker := totalTrials / uint64(o.workers)

	tracer := otel.Tracer("github.com/nvandessel/monty/internal/monty")
	ctx, span := tracer.Start(ctx, "monty.RunParallel", trace.WithAttributes(
		attribute.String("monty.trials", strconv.FormatUint(totalTrials, 10)),
		attribute.Int("monty.workers", o.workers),
	))
	defer span.End()

	start := time.Now()
	partials := make([]Tally, o.workers)

	var g errgroup.Group
	for w := 0; w < o.workers; w++ {
		g.Go(func() (err error) {
			_, wspan := tracer.Start(ctx, "monty.worker", trace.WithAttributes(
				attribute.Int("monty.worker", w),
			))
			defer wspan.End()
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerError{Worker: w, Err: fmt.Errorf("panic: %v", r)}
				}
				if err != nil {
					wspan.RecordError(err)
				}
			}()

			src, err := o.source()
			if err != nil {
				return &WorkerError{Worker: w, Err: fmt.Errorf("building source: %w", err)}
			}

			wstart := time.Now()
			o.logger.Debug("worker started", "worker", w, "trials", perWorker)
			partials[w] = NewGame(src).WithTrial(o.trial).Play(perWorker)
			o.logger.Debug("worker finished", "worker", w, "elapsed", time.Since(wstart))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return Tally{}, err
	}

	total := Sum(partials...)
	o.logger.Debug("parallel run complete",
		"workers", o.workers,
		"per_worker", perWorker,
		"played", total.Total(),
		"elapsed", time.Since(start),
	)
	return total, nil
}
