// Package controller holds the page logic behind each view: it loads from the
// stores, derives display-ready data and turns every failure into a Notice.
// Controllers are safe for concurrent use; views read snapshots.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tgienger/quill/internal/store"
	"golang.org/x/sync/errgroup"
)

// Severity of a notice
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	}
	return "info"
}

// Notice is a message for the status bar
type Notice struct {
	Message  string
	Severity Severity
}

// Option configures a controller
type Option func(*page)

// WithClock overrides time.Now for deadline math
func WithClock(c func() time.Time) Option {
	return func(p *page) { p.now = c }
}

// WithLogger sets the logger failures are reported to
func WithLogger(l *slog.Logger) Option {
	return func(p *page) { p.logger = l }
}

// page is the state every controller shares: the stores, the pending
// notice, the load error and the load generation
type page struct {
	stores store.Set
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	gen     uint64
	loading bool
	loaded  bool
	loadErr error
	notice  *Notice
}

func newPage(stores store.Set, opts []Option) page {
	p := page{stores: stores, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// begin starts a load and returns its generation
func (p *page) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.loading = true
	return p.gen
}

// finish records the outcome of load gen. It returns false, leaving state
// untouched, when a newer load has started since; the caller must then drop
// its results. Must be called with p.mu held.
func (p *page) finish(gen uint64, err error) bool {
	if gen != p.gen {
		return false
	}
	p.loading = false
	p.loadErr = err
	if err == nil {
		p.loaded = true
	}
	if err != nil {
		p.notice = &Notice{Message: store.Message(err), Severity: SeverityError}
	}
	return true
}

// TakeNotice returns the pending notice, if any, and clears it
func (p *page) TakeNotice() (Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.notice == nil {
		return Notice{}, false
	}
	n := *p.notice
	p.notice = nil
	return n, true
}

// Notify sets the pending notice for a message raised outside the
// controller, such as a form field that could not be parsed
func (p *page) Notify(msg string, sev Severity) {
	p.notify(msg, sev)
}

func (p *page) notify(msg string, sev Severity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = &Notice{Message: msg, Severity: sev}
}

// fail surfaces a mutation error. Validation failures read as the field
// message; anything else names the action that failed.
func (p *page) fail(action string, err error) {
	msg := store.Message(err)
	switch store.KindOf(err) {
	case store.ErrValidation:
	case store.ErrNotFound:
		msg = "Could not " + action + ": " + msg
	default:
		msg = "Failed to " + action
		p.logger.Error("Store call failed", "action", action, "error", err)
	}
	p.notify(msg, SeverityError)
}

// mutate runs a store mutation, then reloads. On failure the notice is set
// and only a NotFound reloads, so local state catches up with the store.
// A failed reload after a successful mutation shows up as the load error.
func (p *page) mutate(ctx context.Context, action string, reload func(context.Context) error, fn func() error) error {
	if err := fn(); err != nil {
		p.fail(action, err)
		if errors.Is(err, store.ErrNotFound) && reload != nil {
			_ = reload(ctx)
		}
		return err
	}
	if reload != nil {
		_ = reload(ctx)
	}
	return nil
}

// validate checks input before any store call
func validate(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	return store.Invalid(entity, op, err)
}

// loadAll runs the loaders concurrently. The first failure cancels the
// others and is returned.
func loadAll(ctx context.Context, loaders ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		g.Go(func() error { return load(ctx) })
	}
	return g.Wait()
}

// syncTaskCount moves the cached counters after a task changes project.
// Counter failures are logged, never surfaced: the cache is advisory.
func (p *page) syncTaskCount(ctx context.Context, from, to string) {
	if from == to {
		return
	}
	adjust := func(id string, delta int) {
		if id == "" {
			return
		}
		if err := p.stores.Projects.AdjustTaskCount(ctx, id, delta); err != nil {
			p.logger.Warn("Failed to adjust project task count", "project", id, "delta", delta, "error", err)
		}
	}
	adjust(from, -1)
	adjust(to, 1)
}

// State is the load status every view shares
type State struct {
	Loading bool
	// Loaded is set once any load has succeeded
	Loaded bool
	// Err is set after a failed load until the next Load call succeeds
	Err error
}

func (p *page) state() State {
	return State{Loading: p.loading, Loaded: p.loaded, Err: p.loadErr}
}
