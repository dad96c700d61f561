package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryHistoryStore keeps runs in memory. It backs the MCP server when
// recording is disabled and is used in tests.
type InMemoryHistoryStore struct {
	mu   sync.RWMutex
	runs []Run
}

// NewInMemoryHistoryStore creates an empty store.
func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{}
}

// Record appends run.
func (s *InMemoryHistoryStore) Record(ctx context.Context, run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	for _, r := range s.runs {
		if r.ID == run.ID {
			return "", fmt.Errorf("run %s already recorded", run.ID)
		}
	}
	s.runs = append(s.runs, run)
	return run.ID, nil
}

// Get returns the run with the given ID.
func (s *InMemoryHistoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.runs {
		if r.ID == id {
			run := r
			return &run, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns up to limit runs, newest first.
func (s *InMemoryHistoryStore) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, len(s.runs))
	for i, r := range s.runs {
		runs[len(runs)-1-i] = r
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op.
func (s *InMemoryHistoryStore) Close() error {
	return nil
}
