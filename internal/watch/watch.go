// Package watch notices when another process changes a database file
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long changes are collected before one is reported
const DefaultDebounce = 300 * time.Millisecond

// sidecars are the files sqlite writes next to the database. The -shm file
// is left out: it changes on plain reads.
var sidecars = []string{"", "-wal", "-journal"}

// Watcher reports debounced changes to one database file
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	names    map[string]bool

	pending atomic.Bool
	changes chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period between a change and its report
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		watcher:  fsw,
		logger:   slog.Default(),
		names:    make(map[string]bool, len(sidecars)),
		changes:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	base := filepath.Base(abs)
	for _, s := range sidecars {
		w.names[base+s] = true
	}
	return w, nil
}

// Changes delivers one value per debounced burst of changes. Bursts that
// arrive while a value is still unread are merged into it. The channel is
// closed once the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start watches the directory holding the file. The file itself may come and
// go: sqlite replaces its sidecars, so a watch on the file alone would be lost.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.processEvents(ctx)

	w.logger.Info("Data watcher started", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop stops the watcher. Changes is closed when the event loop exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.changes)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !w.names[filepath.Base(event.Name)] {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
		return
	}
	w.pending.Store(true)
	w.logger.Debug("Data change detected", "file", event.Name, "op", event.Op.String())
}

func (w *Watcher) flush() {
	if !w.pending.Swap(false) {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
