package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvandessel/monty/internal/monty"
)

func newStores(t *testing.T) map[string]HistoryStore {
	t.Helper()
	s, err := NewSQLiteHistoryStore(filepath.Join(t.TempDir(), "sub", "monty.db"))
	if err != nil {
		t.Fatalf("NewSQLiteHistoryStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return map[string]HistoryStore{
		"sqlite": s,
		"memory": NewInMemoryHistoryStore(),
	}
}

func sampleRun(started time.Time) Run {
	return Run{
		StartedAt: started,
		Trials:    1_000_000,
		Workers:   8,
		Source:    "xorshift",
		Seed:      0,
		Trial:     "doors",
		Tally: monty.Tally{
			Switched: monty.ResultSet{Wins: 333_500, Losses: 166_500},
			Stayed:   monty.ResultSet{Wins: 166_400, Losses: 333_600},
		},
		Elapsed: 1500 * time.Millisecond,
	}
}

func TestRecordAndGet(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleRun(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

			id, err := s.Record(ctx, want)
			if err != nil {
				t.Fatalf("Record failed: %v", err)
			}
			if id == "" {
				t.Fatal("Record returned empty ID")
			}

			got, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.ID != id {
				t.Errorf("ID = %q, want %q", got.ID, id)
			}
			if !got.StartedAt.Equal(want.StartedAt) {
				t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
			}
			if got.Tally != want.Tally {
				t.Errorf("Tally = %+v, want %+v", got.Tally, want.Tally)
			}
			if got.Trials != want.Trials || got.Workers != want.Workers || got.Source != want.Source || got.Trial != want.Trial {
				t.Errorf("run = %+v, want %+v", got, want)
			}
			if got.Elapsed != want.Elapsed {
				t.Errorf("Elapsed = %v, want %v", got.Elapsed, want.Elapsed)
			}
		})
	}
}

func TestRecordKeepsExplicitID(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			run := sampleRun(time.Now())
			run.ID = "fixed-id"
			id, err := s.Record(context.Background(), run)
			if err != nil {
				t.Fatalf("Record failed: %v", err)
			}
			if id != "fixed-id" {
				t.Errorf("id = %q, want fixed-id", id)
			}
			if _, err := s.Record(context.Background(), run); err == nil {
				t.Error("expected error recording duplicate ID")
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			// Sub-second offsets check that ordering is chronological.
			offsets := []time.Duration{
				time.Second + 100*time.Millisecond,
				time.Second + 120*time.Millisecond,
				0,
			}
			for i, off := range offsets {
				run := sampleRun(base.Add(off))
				run.Workers = i + 1
				if _, err := s.Record(ctx, run); err != nil {
					t.Fatalf("Record failed: %v", err)
				}
			}

			runs, err := s.List(ctx, 0)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(runs) != 3 {
				t.Fatalf("List returned %d runs, want 3", len(runs))
			}
			wantWorkers := []int{2, 1, 3}
			for i, w := range wantWorkers {
				if runs[i].Workers != w {
					t.Errorf("runs[%d].Workers = %d, want %d", i, runs[i].Workers, w)
				}
			}

			limited, err := s.List(ctx, 2)
			if err != nil {
				t.Fatalf("List(2) failed: %v", err)
			}
			if len(limited) != 2 {
				t.Errorf("List(2) returned %d runs", len(limited))
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			runs, err := s.List(context.Background(), 10)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(runs) != 0 {
				t.Errorf("List returned %d runs, want 0", len(runs))
			}
		})
	}
}

func TestSQLiteLargeCountersRoundTrip(t *testing.T) {
	s, err := NewSQLiteHistoryStore(filepath.Join(t.TempDir(), "monty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	run := sampleRun(time.Now())
	run.Trials = 10_000_000_000_000_000_000 // above math.MaxInt64
	run.Seed = ^uint64(0)
	id, err := s.Record(context.Background(), run)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	got, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Trials != run.Trials {
		t.Errorf("Trials = %d, want %d", got.Trials, run.Trials)
	}
	if got.Seed != run.Seed {
		t.Errorf("Seed = %d, want %d", got.Seed, run.Seed)
	}
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monty.db")
	s, err := NewSQLiteHistoryStore(path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Record(context.Background(), sampleRun(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := NewSQLiteHistoryStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	if s2.Path() != path {
		t.Errorf("Path() = %q, want %q", s2.Path(), path)
	}
	if _, err := s2.Get(context.Background(), id); err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
}
