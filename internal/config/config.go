// Package config provides unified configuration loading for monty.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/monty/internal/logging"
	"github.com/nvandessel/monty/internal/monty"
	"github.com/nvandessel/monty/internal/rng"
)

// MontyConfig contains all monty configuration settings.
type MontyConfig struct {
	// Simulation controls the size and shape of a run.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation" envPrefix:"MONTY_"`

	// Logging contains settings for operational logging and the run journal.
	Logging LoggingConfig `json:"logging" yaml:"logging" envPrefix:"MONTY_LOG_"`

	// History configures the SQLite run history.
	History HistoryConfig `json:"history" yaml:"history" envPrefix:"MONTY_HISTORY_"`

	// Telemetry configures OTLP trace export.
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" envPrefix:"MONTY_OTEL_"`
}

// SimulationConfig configures the engine.
type SimulationConfig struct {
	// Exponent sets the run size to 10^Exponent trials.
	Exponent uint `json:"exponent" yaml:"exponent" env:"EXPONENT"`

	// Workers is the goroutine count. 0 means one per logical CPU.
	Workers int `json:"workers" yaml:"workers" env:"WORKERS"`

	// Source names the random source: xorshift, splitmix, pcg or step.
	Source string `json:"source" yaml:"source" env:"SOURCE"`

	// Seed seeds every worker's source. All workers get the same seed.
	Seed uint64 `json:"seed" yaml:"seed" env:"SEED"`

	// Trial selects the round implementation: "doors" or "direct".
	Trial string `json:"trial" yaml:"trial" env:"TRIAL"`
}

// LoggingConfig configures monty's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", "trace", "warn" or "error".
	// "debug" and "trace" also append each run to ~/.monty/runs.jsonl.
	Level string `json:"level" yaml:"level" env:"LEVEL"`
}

// HistoryConfig configures run recording.
type HistoryConfig struct {
	// Enabled records every run without needing --record.
	Enabled bool `json:"enabled" yaml:"enabled" env:"ENABLED"`

	// Path is the database file. Supports ${VAR} syntax. Empty means ~/.monty/monty.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty" env:"PATH"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" env:"ENDPOINT"`
}

// MaxWorkers is the largest worker count Validate accepts.
const MaxWorkers = 4096

// Default returns a MontyConfig with sensible defaults.
func Default() *MontyConfig {
	return &MontyConfig{
		Simulation: SimulationConfig{
			Exponent: monty.DefaultExponent,
			Workers:  0,
			Source:   rng.DefaultName,
			Seed:     0,
			Trial:    monty.TrialDoors,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the monty home directory (~/.monty).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".monty"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.monty/config.yaml -> environment variables
func Load() (*MontyConfig, error) {
	config := Default()

	if dir, err := Dir(); err == nil {
		configPath := filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	if err := ParseEnv(config); err != nil {
		return nil, err
	}
	config.History.Path = expandEnvVars(config.History.Path)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*MontyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.History.Path = expandEnvVars(config.History.Path)

	return config, nil
}

// ParseEnv overlays MONTY_* environment variables onto target.
// Unset variables leave the existing values untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *MontyConfig) Validate() error {
	if _, err := monty.TrialsForExponent(c.Simulation.Exponent); err != nil {
		return err
	}

	if c.Simulation.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Simulation.Workers)
	}
	if c.Simulation.Workers > MaxWorkers {
		return fmt.Errorf("workers must be at most %d, got %d", MaxWorkers, c.Simulation.Workers)
	}

	if !rng.Valid(c.Simulation.Source) {
		return fmt.Errorf("invalid source: %s (valid: %s)", c.Simulation.Source, strings.Join(rng.Names(), ", "))
	}

	if _, ok := monty.TrialByName(c.Simulation.Trial); !ok {
		return fmt.Errorf("invalid trial: %s (valid: %s, %s)", c.Simulation.Trial, monty.TrialDoors, monty.TrialDirect)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, warn, error, or empty for default)", c.Logging.Level)
	}

	return nil
}

// HistoryPath returns the configured database path or the default under Dir.
func (c *MontyConfig) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "monty.db"), nil
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
