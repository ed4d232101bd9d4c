package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

const projectColumns = `id, name, description, color, task_count, created_at, updated_at`

// ProjectStore implements store.ProjectStore on the projects table
type ProjectStore struct {
	db *DB
}

var _ store.ProjectStore = (*ProjectStore)(nil)

func scanProject(row scanner) (models.Project, error) {
	var (
		p                models.Project
		id               int64
		created, updated string
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &p.Color, &p.TaskCount, &created, &updated); err != nil {
		return p, err
	}
	p.ID = formatID(id)
	var err error
	if p.CreatedAt, err = parseStamp(created); err != nil {
		return p, err
	}
	p.UpdatedAt, err = parseStamp(updated)
	return p, err
}

func getProject(ctx context.Context, q execer, id int64) (models.Project, error) {
	return scanProject(q.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
}

// GetAll returns all projects, newest first
func (s *ProjectStore) GetAll(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id DESC")
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityProject, store.OpGetAll, "", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, store.Wrap(store.ErrLoad, store.EntityProject, store.OpGetAll, "", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityProject, store.OpGetAll, "", err)
	}
	return projects, nil
}

// GetByID retrieves a project by ID, or nil when it does not exist
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	n, ok := rowID(id)
	if !ok {
		return nil, nil
	}
	p, err := getProject(ctx, s.db, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityProject, store.OpGet, id, err)
	}
	return &p, nil
}

// Create creates a new project
func (s *ProjectStore) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpCreate, err)
	}

	now := stamp(s.db.clock())
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (name, description, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, in.Name, in.Description, in.Color, now, now)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpCreate, "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpCreate, "", err)
	}

	p, err := getProject(ctx, s.db, id)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpCreate, formatID(id), err)
	}
	return &p, nil
}

// Update updates a project
func (s *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpUpdate, err)
	}
	n, ok := rowID(id)
	if !ok {
		return nil, store.NotFound(store.EntityProject, store.OpUpdate, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpUpdate, id, err)
	}
	defer tx.Rollback()

	p, err := getProject(ctx, tx, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(store.EntityProject, store.OpUpdate, id)
	}
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpUpdate, id, err)
	}

	patch.Apply(&p)
	p.UpdatedAt = store.NextStamp(p.UpdatedAt, s.db.clock()).UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Color, stamp(p.UpdatedAt), n)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpUpdate, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpUpdate, id, err)
	}
	return &p, nil
}

// Delete deletes a project. Its tasks are left in place.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	return s.db.deleteRow(ctx, "projects", store.EntityProject, id)
}

// AdjustTaskCount moves the cached counter, clamped at zero
func (s *ProjectStore) AdjustTaskCount(ctx context.Context, id string, delta int) error {
	n, ok := rowID(id)
	if !ok {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET task_count = MAX(0, task_count + ?) WHERE id = ?
	`, delta, n)
	return store.Wrap(store.ErrPersist, store.EntityProject, store.OpUpdate, id, err)
}

// ProjectCount returns the number of projects
func (db *DB) ProjectCount(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}
