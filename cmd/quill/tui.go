package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/quill/internal/backend"
	"github.com/tgienger/quill/internal/config"
	"github.com/tgienger/quill/internal/ui"
	"github.com/tgienger/quill/internal/watch"
)

func runTUI(ctx context.Context, cfg *config.Config) error {
	// The screen belongs to bubbletea, so logs go to a file
	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("Failed to close backend", "error", err)
		}
	}()

	opts := []ui.Option{
		ui.WithLogger(logger),
		ui.WithBackendName(b.Name),
	}
	if b.Settings != nil {
		opts = append(opts, ui.WithSettings(b.Settings))
	}

	if cfg.UI.Watch && b.WatchPath != "" {
		w, err := watch.New(b.WatchPath, watch.WithLogger(logger))
		if err != nil {
			logger.Warn("File watching disabled", "path", b.WatchPath, "error", err)
		} else if err := w.Start(ctx); err != nil {
			logger.Warn("File watching disabled", "path", b.WatchPath, "error", err)
		} else {
			defer w.Stop()
			opts = append(opts, ui.WithChanges(w.Changes()))
		}
	}

	logger.Info("Starting quill", "version", version, "backend", b.Name)
	p := tea.NewProgram(ui.NewApp(b.Stores, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
