// Package backend opens the store selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tgienger/quill/internal/config"
	"github.com/tgienger/quill/internal/db"
	"github.com/tgienger/quill/internal/kvstore"
	"github.com/tgienger/quill/internal/remote"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/store/memstore"
)

// Settings persists small pieces of UI state between runs
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Backend is an opened store plus what the caller needs to run against it
type Backend struct {
	Name   string
	Stores store.Set
	// Settings is nil for backends that cannot persist UI state
	Settings Settings
	// WatchPath is the data file to watch for outside changes, if any
	WatchPath string

	closers []func() error
}

// Open opens the backend named by cfg.Backend
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{Name: cfg.Backend}

	switch cfg.Backend {
	case config.BackendMemory:
		b.Stores = memstore.New()

	case config.BackendSQLite:
		path := cfg.SQLite.Path
		if path == "" {
			p, err := db.DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			path = p
		}
		database, err := db.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		b.Stores = database.Stores()
		b.Settings = database
		b.WatchPath = database.Path()
		b.closers = append(b.closers, database.Close)
		logger.Debug("Opened sqlite backend", "path", path)

	case config.BackendNATS:
		url := cfg.NATS.URL
		if url == "" {
			ns, err := startEmbedded(cfg)
			if err != nil {
				return nil, err
			}
			b.closers = append(b.closers, func() error { ns.Stop(); return nil })
			url = ns.ClientURL()
			logger.Debug("Started embedded NATS server", "url", url)
		}
		kv, err := kvstore.Connect(ctx, url)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Stores = kv.Stores()
		// Drain before the embedded server stops
		b.closers = append(b.closers, kv.Close)
		logger.Debug("Connected to NATS backend", "url", url)

	case config.BackendRemote:
		client := remote.NewClient(cfg.Remote.BaseURL,
			remote.WithAPIKey(cfg.Remote.APIKey),
			remote.WithTimeout(cfg.Remote.Timeout),
		)
		b.Stores = client.Stores()
		logger.Debug("Using remote backend", "base_url", cfg.Remote.BaseURL)

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return b, nil
}

func startEmbedded(cfg *config.Config) (*kvstore.Embedded, error) {
	dir := cfg.NATS.StoreDir
	if dir == "" {
		dbPath, err := db.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		dir = filepath.Join(filepath.Dir(dbPath), "jetstream")
	}
	ns, err := kvstore.StartEmbedded(dir)
	if err != nil {
		return nil, fmt.Errorf("start embedded NATS: %w", err)
	}
	return ns, nil
}

// Close releases everything Open acquired, newest first
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
