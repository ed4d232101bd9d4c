package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

//go:embed schema.sql
var schema string

// settingTemplatesSeeded marks a database whose default templates were
// inserted
const settingTemplatesSeeded = "templates_seeded"

// stampLayout is fixed width so stored timestamps sort as text
const stampLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps the database connection
type DB struct {
	*sql.DB
	path  string
	clock store.Clock
}

// Option configures a DB
type Option func(*DB)

// WithClock overrides time.Now for created/updated stamps
func WithClock(c store.Clock) Option {
	return func(db *DB) { db.clock = c }
}

// New opens the database at the default location
func New(opts ...Option) (*DB, error) {
	dbPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(dbPath, opts...)
}

// Open creates or opens the database file at path and initializes the schema
func Open(path string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, err
	}

	// Initialize schema
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	db := &DB{DB: conn, path: path, clock: time.Now}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.seedTemplates(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// DefaultPath returns the path to the database file
func DefaultPath() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "quill", "quill.db"), nil
}

// Path returns the database file location
func (db *DB) Path() string {
	return db.path
}

// Stores returns the store set backed by this database
func (db *DB) Stores() store.Set {
	return store.Set{
		Tasks:     &TaskStore{db: db},
		Projects:  &ProjectStore{db: db},
		Templates: &TemplateStore{db: db},
	}
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// seedTemplates inserts the default templates once per database. Deleting them
// later does not bring them back.
func (db *DB) seedTemplates(ctx context.Context) error {
	seeded, err := db.GetSetting(ctx, settingTemplatesSeeded)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if seeded != "" {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Reverse insert so the first preset lists first
	defaults := models.DefaultTemplates()
	for i := len(defaults) - 1; i >= 0; i-- {
		t := defaults[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO templates (name, title, description, word_count_target, deadline_days, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.Name, t.Title, t.Description, t.WordCountTarget, t.DeadlineDays, stamp(t.CreatedAt), stamp(t.UpdatedAt)); err != nil {
			return fmt.Errorf("seed templates: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, '1')`, settingTemplatesSeeded); err != nil {
		return err
	}
	return tx.Commit()
}

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

func parseStamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// rowID converts a store id into the integer key. ok is false for ids this
// database could never have issued.
func rowID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil && n > 0
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// deleteRow removes one row by id from table, reporting NotFound when nothing
// was deleted
func (db *DB) deleteRow(ctx context.Context, table, entity, id string) error {
	n, ok := rowID(id)
	if !ok {
		return store.NotFound(entity, store.OpDelete, id)
	}
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", n)
	if err != nil {
		return store.Wrap(store.ErrPersist, entity, store.OpDelete, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return store.Wrap(store.ErrPersist, entity, store.OpDelete, id, err)
	}
	if affected == 0 {
		return store.NotFound(entity, store.OpDelete, id)
	}
	return nil
}
