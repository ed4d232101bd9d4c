// Package main provides the quill binary entry point.
// Quill tracks writing work from idea to publication in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tgienger/quill/internal/config"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const appName = "quill"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags are the options shared by every command
type flags struct {
	configPath string
	backend    string
	dbPath     string
	natsURL    string
	remoteURL  string
	logLevel   string
}

// overrides turns the flags into a config layer
func (f *flags) overrides() *config.Config {
	return &config.Config{
		Backend: f.backend,
		SQLite:  config.SQLiteConfig{Path: f.dbPath},
		NATS:    config.NATSConfig{URL: f.natsURL},
		Remote:  config.RemoteConfig{BaseURL: f.remoteURL},
		Log:     config.LogConfig{Level: f.logLevel},
	}
}

// load reads the layered configuration. Loading itself logs to stderr only
// at warn level so the TUI screen stays clean.
func (f *flags) load() (*config.Config, error) {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.NewLoader(bootstrap).Load(f.configPath, f.overrides())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Track writing work from idea to publication",
		Long: `Quill is a terminal writing tracker.

It provides:
- Tasks that move through ideas, drafting, editing, submitted and published
- Projects grouping related tasks, with word count summaries
- A deadline calendar and an archive of finished work
- Templates for recurring kinds of writing

Data lives in sqlite by default. NATS KV and a remote record API are
available as alternative backends.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&f.backend, "backend", "", "Store backend (memory, sqlite, nats, remote)")
	pf.StringVar(&f.dbPath, "db", "", "SQLite database path")
	pf.StringVar(&f.natsURL, "nats-url", "", "NATS server URL (disables the embedded server)")
	pf.StringVar(&f.remoteURL, "remote-url", "", "Record API base URL for the remote backend")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(f),
		statsCmd(f),
		exportICSCmd(f),
		configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit: %s, built: %s)\n", appName, version, commit, date)
			},
		},
	)

	return cmd
}

// newLogger builds the process logger writing to w
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()}))
}

// openLogFile opens the TUI log file, creating its directory
func openLogFile(cfg *config.Config) (*os.File, error) {
	path := cfg.Log.File
	if path == "" {
		dir, err := config.StateDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		path = filepath.Join(dir, appName+".log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
