// Package store records finished simulation runs.
package store

import (
	"context"
	"time"

	"github.com/nvandessel/monty/internal/monty"
)

// Run is one finished simulation.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Trials    uint64        `json:"trials"`
	Workers   int           `json:"workers"`
	Source    string        `json:"source"`
	Seed      uint64        `json:"seed"`
	Trial     string        `json:"trial"`
	Tally     monty.Tally   `json:"tally"`
	Elapsed   time.Duration `json:"elapsed"`
}

// HistoryStore persists runs.
type HistoryStore interface {
	// Record stores run. An empty ID is replaced with a new UUID, which
	// is returned.
	Record(ctx context.Context, run Run) (string, error)

	// Get returns the run with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Run, error)

	Close() error
}
