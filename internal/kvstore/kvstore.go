// Package kvstore is the NATS JetStream key-value backend. Each entity lives in
// its own bucket as JSON keyed by a uuid.
package kvstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Bucket names for each entity type
const (
	BucketTasks     = "QUILL_TASKS"
	BucketProjects  = "QUILL_PROJECTS"
	BucketTemplates = "QUILL_TEMPLATES"
)

// Store owns the buckets of one JetStream account
type Store struct {
	tasks     *bucket[models.Task]
	projects  *bucket[models.Project]
	templates *bucket[models.Template]
	clock     store.Clock
	newID     func() string
	conn      *nats.Conn
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides time.Now
func WithClock(c store.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Connect dials a NATS server and opens the buckets on it. Close releases
// the connection.
func Connect(ctx context.Context, url string, opts ...Option) (*Store, error) {
	conn, err := nats.Connect(url, nats.Name("quill"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	s, err := New(ctx, js, opts...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// New creates the buckets if they don't exist. A freshly created templates
// bucket is seeded with the default presets.
func New(ctx context.Context, js jetstream.JetStream, opts ...Option) (*Store, error) {
	s := &Store{
		clock: time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, _, err := getOrCreateBucket(ctx, js, BucketTasks)
	if err != nil {
		return nil, fmt.Errorf("create tasks bucket: %w", err)
	}
	projects, _, err := getOrCreateBucket(ctx, js, BucketProjects)
	if err != nil {
		return nil, fmt.Errorf("create projects bucket: %w", err)
	}
	templates, created, err := getOrCreateBucket(ctx, js, BucketTemplates)
	if err != nil {
		return nil, fmt.Errorf("create templates bucket: %w", err)
	}

	s.tasks = &bucket[models.Task]{kv: tasks, entity: store.EntityTask}
	s.projects = &bucket[models.Project]{kv: projects, entity: store.EntityProject}
	s.templates = &bucket[models.Template]{kv: templates, entity: store.EntityTemplate}

	if created {
		for _, t := range models.DefaultTemplates() {
			t.ID = s.newID()
			if err := s.templates.put(ctx, t.ID, t); err != nil {
				return nil, fmt.Errorf("seed templates: %w", err)
			}
		}
		slog.Debug("Seeded default templates", "bucket", BucketTemplates)
	}
	return s, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, bool, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, false, nil
	}
	// Bucket doesn't exist, create it
	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("quill %s", strings.ToLower(strings.TrimPrefix(name, "QUILL_"))),
		History:     5, // Keep last 5 revisions
	})
	return kv, err == nil, err
}

// Stores returns the store set backed by the buckets
func (s *Store) Stores() store.Set {
	return store.Set{
		Tasks:     &TaskStore{s: s},
		Projects:  &ProjectStore{s: s},
		Templates: &TemplateStore{s: s},
	}
}

// Close drains the connection opened by Connect
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Drain()
}

// bucket is a typed view over one KV bucket
type bucket[T any] struct {
	kv     jetstream.KeyValue
	entity string
}

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}

// list loads every live entry. Entries that vanish between listing and
// fetching are skipped.
func (b *bucket[T]) list(ctx context.Context, keep func(*T) bool) ([]T, error) {
	keys, err := b.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []T{}, nil
		}
		return nil, store.Wrap(store.ErrLoad, b.entity, store.OpGetAll, "", err)
	}

	out := make([]T, 0, len(keys))
	for _, key := range keys {
		v, _, err := b.get(ctx, key)
		if err != nil {
			return nil, store.Wrap(store.ErrLoad, b.entity, store.OpGetAll, key, err)
		}
		if v == nil {
			continue
		}
		if keep == nil || keep(v) {
			out = append(out, *v)
		}
	}
	return out, nil
}

// get returns nil when the key is absent
func (b *bucket[T]) get(ctx context.Context, id string) (*T, uint64, error) {
	if !validKey(id) {
		return nil, 0, nil
	}
	entry, err := b.kv.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("get %s: %w", b.entity, err)
	}
	var v T
	if err := json.Unmarshal(entry.Value(), &v); err != nil {
		return nil, 0, fmt.Errorf("unmarshal %s: %w", b.entity, err)
	}
	return &v, entry.Revision(), nil
}

func (b *bucket[T]) put(ctx context.Context, id string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", b.entity, err)
	}
	if _, err := b.kv.Put(ctx, id, data); err != nil {
		return fmt.Errorf("store %s: %w", b.entity, err)
	}
	return nil
}

// modify applies fn under optimistic concurrency, retrying when another
// writer got there first
func (b *bucket[T]) modify(ctx context.Context, id string, fn func(*T)) (*T, error) {
	const attempts = 3
	var lastErr error
	for range attempts {
		v, rev, err := b.get(ctx, id)
		if err != nil {
			return nil, store.Wrap(store.ErrPersist, b.entity, store.OpUpdate, id, err)
		}
		if v == nil {
			return nil, store.NotFound(b.entity, store.OpUpdate, id)
		}
		fn(v)

		data, err := json.Marshal(v)
		if err != nil {
			return nil, store.Wrap(store.ErrPersist, b.entity, store.OpUpdate, id, err)
		}
		if _, err := b.kv.Update(ctx, id, data, rev); err != nil {
			lastErr = err
			if isConflict(err) {
				continue
			}
			return nil, store.Wrap(store.ErrPersist, b.entity, store.OpUpdate, id, err)
		}
		return v, nil
	}
	return nil, store.Wrap(store.ErrPersist, b.entity, store.OpUpdate, id, lastErr)
}

func (b *bucket[T]) remove(ctx context.Context, id string) error {
	v, _, err := b.get(ctx, id)
	if err != nil {
		return store.Wrap(store.ErrPersist, b.entity, store.OpDelete, id, err)
	}
	if v == nil {
		return store.NotFound(b.entity, store.OpDelete, id)
	}
	if err := b.kv.Delete(ctx, id); err != nil {
		return store.Wrap(store.ErrPersist, b.entity, store.OpDelete, id, err)
	}
	return nil
}

// isConflict reports a revision mismatch on Update
func isConflict(err error) bool {
	var apiErr *jetstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
	}
	return errors.Is(err, jetstream.ErrKeyExists)
}

// validKey rejects ids that are not legal KV keys, so lookups of foreign ids
// read as missing instead of failing
func validKey(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") || strings.HasSuffix(id, ".") {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '/', r == '=', r == '.':
		default:
			return false
		}
	}
	return true
}

// newestFirst orders by creation time descending
func newestFirst[T any](items []T, created func(*T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(created(&b).UnixNano(), created(&a).UnixNano())
	})
}
