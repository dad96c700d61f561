// Package logging provides leveled logging and run journaling for monty.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A Journal appending one JSON line per finished run (~/.monty/runs.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug, labelled TRACE in output.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace", "warn", "error" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "", "info", "debug", "trace", "warn", "error":
		return true
	}
	return false
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RunEvent is one journal line.
type RunEvent struct {
	Trials    uint64  `json:"trials"`
	Workers   int     `json:"workers"`
	Source    string  `json:"source"`
	Trial     string  `json:"trial"`
	Played    uint64  `json:"played"`
	Switched  float64 `json:"switched_rate"`
	Stayed    float64 `json:"stayed_rate"`
	ElapsedMS int64   `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

// Journal appends RunEvents to a JSONL file. It is safe for concurrent
// use. A nil Journal is valid; all methods are no-ops on a nil receiver.
type Journal struct {
	mu   sync.Mutex
	file *os.File
}

// NewJournal opens dir/runs.jsonl for append.
// At "info" level or above it returns nil and no file is created.
// Returns nil if the file cannot be opened.
func NewJournal(dir string, level string) *Journal {
	if ParseLevel(level) >= slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "runs.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &Journal{file: f}
}

// Record writes ev as a single JSON line with a "time" field.
func (j *Journal) Record(ev RunEvent) {
	if j == nil || j.file == nil {
		return
	}

	entry := struct {
		Time string `json:"time"`
		RunEvent
	}{
		Time:     time.Now().UTC().Format(time.RFC3339Nano),
		RunEvent: ev,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}
	_, _ = j.file.Write(data)
}

// Close closes the underlying file.
func (j *Journal) Close() {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		j.file.Close()
		j.file = nil
	}
}
