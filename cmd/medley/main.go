// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// medley is the terminal client for the Medley ticket marketplace.
//
// Two modes of operation:
//
// Demo mode (default): runs against an in-memory backend pre-seeded
// with a small concert catalog and an initialized token. No network
// required — useful for trying the client and for development.
//
// Gateway mode (--backend-url or a config file with demo disabled):
// talks JSON-over-HTTP to a Medley gateway. Every operation is one
// POST under /v1/ with a tagged ok/err response body.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/medley-live/medley/lib/backend"
	"github.com/medley-live/medley/lib/config"
	"github.com/medley-live/medley/lib/marketui"
	"github.com/medley-live/medley/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var backendURL string
	var demoMode bool
	var logOutput string

	flagSet := pflag.NewFlagSet("medley", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to medley.yaml (default: $MEDLEY_CONFIG)")
	flagSet.StringVar(&backendURL, "backend-url", "", "gateway base URL (overrides the config file)")
	flagSet.BoolVar(&demoMode, "demo", false, "use the in-memory demo backend (overrides the config file)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to TUI display)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Medley tooling.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("medley")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if backendURL != "" {
		cfg.Backend.URL = backendURL
		cfg.Backend.Demo = false
	}
	if demoMode {
		cfg.Backend.Demo = true
	}
	if logOutput != "" {
		cfg.Logging.Output = logOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return err
	}

	// Background logging (from the dashboard controllers and the HTTP
	// backend) is routed through a TUILogHandler that displays warnings
	// and errors in the status bar instead of writing to stderr (which
	// would corrupt the alt-screen display). An optional file logger
	// captures all records for post-mortem debugging.
	tuiHandler := marketui.NewTUILogHandler(slog.LevelWarn)

	var logger *slog.Logger
	if cfg.Logging.Output != "" {
		fileHandler, fileCloser, fileErr := openFileLogHandler(cfg.Logging.Output, cfg.LogLevel())
		if fileErr != nil {
			return fmt.Errorf("cannot open log file %s: %w", cfg.Logging.Output, fileErr)
		}
		defer fileCloser()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}
	slog.SetDefault(logger)

	var client backend.Backend
	if cfg.Backend.Demo {
		startupLogger().Info("starting with the in-memory demo backend")
		client = backend.NewDemoBackend()
	} else {
		startupLogger().Info("starting against gateway", "url", cfg.Backend.URL, "timeout", timeout)
		client, err = backend.NewHTTPBackend(backend.HTTPConfig{
			BaseURL:    cfg.Backend.URL,
			HTTPClient: &http.Client{Timeout: timeout},
			Logger:     logger,
		})
		if err != nil {
			return err
		}
	}

	model := marketui.NewModel(client, timeout)
	program := tea.NewProgram(model, tea.WithAltScreen())

	tuiHandler.SetProgram(program)

	_, err = program.Run()
	return err
}

// startupLogger reports pre-TUI startup steps on stderr: a TextHandler
// when stderr is a terminal, a JSONHandler when piped or redirected so
// scripts get machine-parseable records.
func startupLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// loadConfig resolves the configuration: an explicit --config path
// wins, then the MEDLEY_CONFIG environment variable, then built-in
// defaults (demo mode).
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("MEDLEY_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// openFileLogHandler creates a slog.JSONHandler that writes to the
// given file path. Returns the handler, a cleanup function to close
// the file, and any error. The file is created or truncated.
func openFileLogHandler(path string, level slog.Level) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return handler, func() { file.Close() }, nil
}

// fanoutHandler is a slog.Handler that sends each record to multiple
// underlying handlers. A record is enabled if any sub-handler is
// enabled for that level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Medley — terminal client for the Medley ticket marketplace.

By default, runs against an in-memory demo backend seeded with a small
concert catalog. Use --backend-url (or a config file naming a gateway
and disabling demo mode) to talk to a real Medley gateway.

Configuration is read from the file named by --config or the
MEDLEY_CONFIG environment variable. Flags override the file.

Usage:
  medley [flags]

Flags:
%s`, flagSet.FlagUsages())
}
