// Package memstore is the in-memory backend. Each New call builds an isolated
// set of collections; nothing is shared between instances.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Option configures a memory backend
type Option func(*options)

type options struct {
	clock     store.Clock
	newID     func() string
	tasks     []models.Task
	projects  []models.Project
	templates []models.Template
}

// WithClock overrides time.Now
func WithClock(c store.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDs overrides the id generator
func WithIDs(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithTasks seeds the task collection, newest first
func WithTasks(tasks ...models.Task) Option {
	return func(o *options) { o.tasks = append(o.tasks, tasks...) }
}

// WithProjects seeds the project collection
func WithProjects(projects ...models.Project) Option {
	return func(o *options) { o.projects = append(o.projects, projects...) }
}

// WithTemplates replaces the default templates
func WithTemplates(templates ...models.Template) Option {
	return func(o *options) { o.templates = append([]models.Template{}, templates...) }
}

// New returns a memory-backed store set
func New(opts ...Option) store.Set {
	o := options{
		clock:     time.Now,
		newID:     func() string { return uuid.New().String() },
		templates: models.DefaultTemplates(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return store.Set{
		Tasks:     &TaskStore{col: newCollection(o.tasks, taskID), clock: o.clock, newID: o.newID},
		Projects:  &ProjectStore{col: newCollection(o.projects, projectID), clock: o.clock, newID: o.newID},
		Templates: &TemplateStore{col: newCollection(o.templates, templateID), clock: o.clock, newID: o.newID},
	}
}

func taskID(t *models.Task) string         { return t.ID }
func projectID(p *models.Project) string   { return p.ID }
func templateID(t *models.Template) string { return t.ID }

// collection is a mutex-guarded ordered slice. Items are values, so callers
// always receive copies.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(*T) string
}

func newCollection[T any](seed []T, id func(*T) string) *collection[T] {
	return &collection[T]{items: append([]T{}, seed...), id: id}
}

func (c *collection[T]) all(keep func(*T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for i := range c.items {
		if keep == nil || keep(&c.items[i]) {
			out = append(out, c.items[i])
		}
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// index must be called with the lock held
func (c *collection[T]) index(id string) int {
	for i := range c.items {
		if c.id(&c.items[i]) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
}

// modify applies fn to the item in place and returns the result
func (c *collection[T]) modify(id string, fn func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	fn(&c.items[i])
	return c.items[i], true
}

func (c *collection[T]) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}
