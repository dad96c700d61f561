package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/monty/internal/monty"
)

// timeFormat has fixed width so started_at sorts chronologically as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteHistoryStore implements HistoryStore on a SQLite file.
type SQLiteHistoryStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteHistoryStore opens (creating if needed) the database at dbPath.
func NewSQLiteHistoryStore(dbPath string) (*SQLiteHistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteHistoryStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteHistoryStore) Path() string {
	return s.dbPath
}

// Record inserts run.
func (s *SQLiteHistoryStore) Record(ctx context.Context, run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, trials, workers, source, seed, trial,
			switched_wins, switched_losses, stayed_wins, stayed_losses,
			elapsed_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timeFormat),
		int64(run.Trials),
		run.Workers,
		run.Source,
		int64(run.Seed),
		run.Trial,
		int64(run.Tally.Switched.Wins),
		int64(run.Tally.Switched.Losses),
		int64(run.Tally.Stayed.Wins),
		int64(run.Tally.Stayed.Losses),
		int64(run.Elapsed),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return run.ID, nil
}

const selectRuns = `
	SELECT id, started_at, trials, workers, source, seed, trial,
	       switched_wins, switched_losses, stayed_wins, stayed_losses,
	       elapsed_ns
	FROM runs`

// Get returns the run with the given ID.
func (s *SQLiteHistoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns up to limit runs, newest first.
func (s *SQLiteHistoryStore) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Close closes the database.
func (s *SQLiteHistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		startedAt string
		trials    int64
		seed      int64
		elapsed   int64
		swWins    int64
		swLosses  int64
		stWins    int64
		stLosses  int64
	)
	err := row.Scan(
		&run.ID, &startedAt, &trials, &run.Workers, &run.Source, &seed, &run.Trial,
		&swWins, &swLosses, &stWins, &stLosses,
		&elapsed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt, err = time.Parse(timeFormat, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("failed to parse started_at %q: %w", startedAt, err)
	}
	run.Trials = uint64(trials)
	run.Seed = uint64(seed)
	run.Tally = monty.Tally{
		Switched: monty.ResultSet{Wins: uint64(swWins), Losses: uint64(swLosses)},
		Stayed:   monty.ResultSet{Wins: uint64(stWins), Losses: uint64(stLosses)},
	}
	run.Elapsed = time.Duration(elapsed)
	return run, nil
}
