package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

const templateColumns = `id, name, title, description, word_count_target, deadline_days, created_at, updated_at`

// TemplateStore implements store.TemplateStore on the templates table
type TemplateStore struct {
	db *DB
}

var _ store.TemplateStore = (*TemplateStore)(nil)

func scanTemplate(row scanner) (models.Template, error) {
	var (
		t                models.Template
		id               int64
		created, updated string
	)
	if err := row.Scan(&id, &t.Name, &t.Title, &t.Description, &t.WordCountTarget, &t.DeadlineDays, &created, &updated); err != nil {
		return t, err
	}
	t.ID = formatID(id)
	var err error
	if t.CreatedAt, err = parseStamp(created); err != nil {
		return t, err
	}
	t.UpdatedAt, err = parseStamp(updated)
	return t, err
}

func getTemplate(ctx context.Context, q execer, id int64) (models.Template, error) {
	return scanTemplate(q.QueryRowContext(ctx, "SELECT "+templateColumns+" FROM templates WHERE id = ?", id))
}

func (s *TemplateStore) GetAll(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+templateColumns+" FROM templates ORDER BY id DESC")
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTemplate, store.OpGetAll, "", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, store.Wrap(store.ErrLoad, store.EntityTemplate, store.OpGetAll, "", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTemplate, store.OpGetAll, "", err)
	}
	return templates, nil
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*models.Template, error) {
	n, ok := rowID(id)
	if !ok {
		return nil, nil
	}
	t, err := getTemplate(ctx, s.db, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTemplate, store.OpGet, id, err)
	}
	return &t, nil
}

func (s *TemplateStore) Create(ctx context.Context, in models.TemplateInput) (*models.Template, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpCreate, err)
	}

	now := stamp(s.db.clock())
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO templates (name, title, description, word_count_target, deadline_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Title, in.Description, in.WordCountTarget, in.DeadlineDays, now, now)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpCreate, "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpCreate, "", err)
	}

	t, err := getTemplate(ctx, s.db, id)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpCreate, formatID(id), err)
	}
	return &t, nil
}

func (s *TemplateStore) Update(ctx context.Context, id string, patch models.TemplatePatch) (*models.Template, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpUpdate, err)
	}
	n, ok := rowID(id)
	if !ok {
		return nil, store.NotFound(store.EntityTemplate, store.OpUpdate, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpUpdate, id, err)
	}
	defer tx.Rollback()

	t, err := getTemplate(ctx, tx, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(store.EntityTemplate, store.OpUpdate, id)
	}
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpUpdate, id, err)
	}

	patch.Apply(&t)
	t.UpdatedAt = store.NextStamp(t.UpdatedAt, s.db.clock()).UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE templates SET name = ?, title = ?, description = ?, word_count_target = ?, deadline_days = ?, updated_at = ?
		WHERE id = ?
	`, t.Name, t.Title, t.Description, t.WordCountTarget, t.DeadlineDays, stamp(t.UpdatedAt), n)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpUpdate, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpUpdate, id, err)
	}
	return &t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	return s.db.deleteRow(ctx, "templates", store.EntityTemplate, id)
}
