// Package mcp provides an MCP (Model Context Protocol) server for monty.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/monty/internal/config"
	"github.com/nvandessel/monty/internal/logging"
	"github.com/nvandessel/monty/internal/ratelimit"
	"github.com/nvandessel/monty/internal/store"
)

// DefaultMaxExponent caps simulate calls at 10^9 trials unless configured.
const DefaultMaxExponent = 9

// Server wraps the MCP SDK server and provides monty-specific tools.
type Server struct {
	server       *sdk.Server
	history      store.HistoryStore
	defaults     config.SimulationConfig
	maxExponent  uint
	maxWorkers   int
	record       bool
	logger       *slog.Logger
	journal      *logging.Journal
	toolLimiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "monty")
	Version string // Server version

	// Simulation supplies defaults for omitted tool arguments.
	Simulation config.SimulationConfig

	// MaxExponent bounds the trial count a client may request. 0 means DefaultMaxExponent.
	MaxExponent uint

	// MaxWorkers bounds the worker count a client may request. 0 means runtime.NumCPU().
	MaxWorkers int

	// History stores runs. Nil means an in-memory store.
	History store.HistoryStore

	// Record stores every simulate call in History.
	Record bool

	Logger *slog.Logger

	// Journal receives one entry per simulate call. May be nil.
	Journal *logging.Journal
}

// NewServer creates a new MCP server with monty tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	history := cfg.History
	if history == nil {
		history = store.NewInMemoryHistoryStore()
	}
	maxExp := cfg.MaxExponent
	if maxExp == 0 {
		maxExp = DefaultMaxExponent
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:       mcpServer,
		history:      history,
		defaults:     cfg.Simulation,
		maxExponent:  maxExp,
		maxWorkers:   maxWorkers,
		record:       cfg.Record,
		logger:       logger,
		journal:      cfg.Journal,
		toolLimiters: ratelimit.NewToolLimiters(),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Close releases the history store.
func (s *Server) Close() error {
	return s.history.Close()
}
