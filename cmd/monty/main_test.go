package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/report"
)

// isolateHome points HOME at a temp directory so tests never touch ~/.monty.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", home)
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_Text(t *testing.T) {
	isolateHome(t)

	out, _, err := execute(t, "3", "--workers", "2")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	for _, want := range []string{"Results", "Switched:", "Stayed:", "1,000 games played", "% win rate"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_JSON(t *testing.T) {
	isolateHome(t)

	out, _, err := execute(t, "4", "--workers", "3", "--json", "--source", "pcg", "--trial", "direct")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}

	var s report.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	// 10000/3 = 3333 per worker, 1666 per strategy.
	if s.Played != 3*2*1666 {
		t.Errorf("Played = %d, want %d", s.Played, 3*2*1666)
	}
	if s.Trials != 10000 || s.Workers != 3 || s.Source != "pcg" || s.Trial != "direct" {
		t.Errorf("Summary = %+v", s)
	}
	if s.ID != "" {
		t.Errorf("ID = %q, want empty without --record", s.ID)
	}
}

func TestRoot_Sequential(t *testing.T) {
	isolateHome(t)

	out, _, err := execute(t, "2", "--sequential", "--json", "--source", "step")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	var s report.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.Workers != 1 || s.Played != 100 {
		t.Errorf("Workers = %d, Played = %d, want 1, 100", s.Workers, s.Played)
	}
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"non-numeric exponent", []string{"abc"}, nil},
		{"negative exponent", []string{"-1"}, nil},
		{"exponent too large", []string{"20"}, monty.ErrExponentRange},
		{"too many args", []string{"1", "2"}, nil},
		{"unknown source", []string{"1", "--source", "nope"}, nil},
		{"unknown trial", []string{"1", "--trial", "nope"}, nil},
		{"negative workers", []string{"1", "--workers", "-2"}, nil},
		{"too many workers", []string{"1", "--workers", "5000"}, nil},
		{"bad log level", []string{"1", "--log-level", "loud"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateHome(t)
			_, _, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("execute error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoot_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("MONTY_EXPONENT", "2")
	t.Setenv("MONTY_WORKERS", "1")

	out, _, err := execute(t, "--json")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	var s report.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.Trials != 100 || s.Workers != 1 {
		t.Errorf("Trials = %d, Workers = %d, want 100, 1", s.Trials, s.Workers)
	}

	// Flags beat the environment.
	out, _, err = execute(t, "1", "--workers", "2", "--json")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.Trials != 10 || s.Workers != 2 {
		t.Errorf("Trials = %d, Workers = %d, want 10, 2", s.Trials, s.Workers)
	}
}

func TestRoot_DebugJournal(t *testing.T) {
	home := isolateHome(t)

	_, stderr, err := execute(t, "2", "--workers", "1", "--log-level", "debug")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if !strings.Contains(stderr, "worker started") {
		t.Errorf("stderr missing worker log:\n%s", stderr)
	}

	data, err := os.ReadFile(filepath.Join(home, ".monty", "runs.jsonl"))
	if err != nil {
		t.Fatalf("reading journal: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("invalid journal line: %v", err)
	}
	if entry["played"] != float64(100) {
		t.Errorf("journal played = %v, want 100", entry["played"])
	}
}

func TestRecordAndHistory(t *testing.T) {
	home := isolateHome(t)

	out, _, err := execute(t, "2", "--workers", "1", "--record", "--json", "--seed", "5")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	var s report.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.ID == "" {
		t.Fatal("ID is empty after --record")
	}
	if _, err := os.Stat(filepath.Join(home, ".monty", "monty.db")); err != nil {
		t.Errorf("history database not created: %v", err)
	}

	out, _, err = execute(t, "history", "--json")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var list struct {
		Runs  []report.Summary `json:"runs"`
		Count int              `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if list.Count != 1 || list.Runs[0].ID != s.ID {
		t.Errorf("history = %+v, want one run %s", list, s.ID)
	}

	out, _, err = execute(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, s.ID) || !strings.Contains(out, "SWITCH") {
		t.Errorf("history table missing run:\n%s", out)
	}

	out, _, err = execute(t, "history", s.ID)
	if err != nil {
		t.Fatalf("history <id> error = %v", err)
	}
	if !strings.Contains(out, "seed 5") || !strings.Contains(out, "100 games played") {
		t.Errorf("history detail:\n%s", out)
	}

	if _, _, err := execute(t, "history", "missing-id"); err == nil {
		t.Error("history missing-id error = nil, want error")
	}
}

func TestHistory_Empty(t *testing.T) {
	isolateHome(t)

	out, _, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "No runs recorded") {
		t.Errorf("output = %q", out)
	}
}

func TestHistoryEnabledByEnv(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	t.Setenv("MONTY_HISTORY_ENABLED", "true")
	t.Setenv("MONTY_HISTORY_PATH", dbPath)

	if _, _, err := execute(t, "1", "--workers", "1"); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("history database not created at %s: %v", dbPath, err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "monty version "+version) {
		t.Errorf("output = %q", out)
	}

	out, _, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json error = %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v["version"] != version {
		t.Errorf("version = %q, want %q", v["version"], version)
	}
}

func TestConfigCmd(t *testing.T) {
	isolateHome(t)
	t.Setenv("MONTY_WORKERS", "3")

	out, _, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"exponent: 9", "workers: 3", "source: xorshift", "level: info"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	t.Setenv("MONTY_SOURCE", "nope")
	if _, _, err := execute(t, "config"); err == nil {
		t.Error("config error = nil, want error for invalid source")
	}
}

func TestBenchCmd(t *testing.T) {
	out, _, err := execute(t, "bench", "--trials", "1000", "--rounds", "1", "--json")
	if err != nil {
		t.Fatalf("bench error = %v", err)
	}
	var results []benchResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if want := len(benchCases(1000)); len(results) != want {
		t.Fatalf("len(results) = %d, want %d", len(results), want)
	}
	groups := map[string]int{}
	for _, r := range results {
		groups[r.Group]++
	}
	if groups["steps"] != 3 || groups["sources"] != 4 || groups["trials"] != 2 {
		t.Errorf("groups = %v", groups)
	}

	if _, _, err := execute(t, "bench", "--rounds", "0"); err == nil {
		t.Error("bench --rounds 0 error = nil, want error")
	}
}

func TestMCPServer_RejectsLargeExponent(t *testing.T) {
	isolateHome(t)
	if _, _, err := execute(t, "mcp-server", "--max-exponent", "30"); err == nil {
		t.Error("mcp-server error = nil, want error")
	}
}

func TestMCPServer_RejectsBadMaxWorkers(t *testing.T) {
	isolateHome(t)
	for _, v := range []string{"-1", "5000"} {
		if _, _, err := execute(t, "mcp-server", "--max-workers", v); err == nil {
			t.Errorf("mcp-server --max-workers %s error = nil, want error", v)
		}
	}
}

func TestFlushTelemetry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	flushTelemetry(context.Background(), func(context.Context) error { return nil }, logger)
	if buf.Len() != 0 {
		t.Errorf("successful flush logged %q", buf.String())
	}

	flushTelemetry(context.Background(), func(context.Context) error {
		return errors.New("collector unreachable")
	}, logger)
	out := buf.String()
	if !strings.Contains(out, "telemetry shutdown failed") || !strings.Contains(out, "collector unreachable") {
		t.Errorf("failed flush not logged: %q", out)
	}
}
