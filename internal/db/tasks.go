package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

const taskColumns = `id, project_id, title, description, status, deadline,
	word_count_target, word_count_complete, notes, created_at, updated_at`

// TaskStore implements store.TaskStore on the tasks table
type TaskStore struct {
	db *DB
}

var _ store.TaskStore = (*TaskStore)(nil)

func scanTask(row scanner) (models.Task, error) {
	var (
		t                models.Task
		id               int64
		created, updated string
	)
	err := row.Scan(&id, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Deadline,
		&t.WordCountTarget, &t.WordCountComplete, &t.Notes, &created, &updated)
	if err != nil {
		return t, err
	}
	t.ID = formatID(id)
	if t.CreatedAt, err = parseStamp(created); err != nil {
		return t, err
	}
	t.UpdatedAt, err = parseStamp(updated)
	return t, err
}

// list runs a task query, newest first
func (s *TaskStore) list(ctx context.Context, where string, args ...any) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGetAll, "", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGetAll, "", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGetAll, "", err)
	}
	return tasks, nil
}

// GetAll returns every task, newest first
func (s *TaskStore) GetAll(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, "")
}

// GetByProject returns the tasks assigned to a project
func (s *TaskStore) GetByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.list(ctx, "project_id = ?", projectID)
}

// GetByStatus returns the tasks in one pipeline status
func (s *TaskStore) GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	return s.list(ctx, "status = ?", string(status))
}

// GetByID retrieves a task by ID, or nil when it does not exist
func (s *TaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	n, ok := rowID(id)
	if !ok {
		return nil, nil
	}
	t, err := getTask(ctx, s.db, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGet, id, err)
	}
	return &t, nil
}

func getTask(ctx context.Context, q execer, id int64) (models.Task, error) {
	return scanTask(q.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
}

// Create inserts a new task
func (s *TaskStore) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpCreate, err)
	}

	now := stamp(s.db.clock())
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (project_id, title, description, status, deadline,
			word_count_target, word_count_complete, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.ProjectID, in.Title, in.Description, string(in.Status), in.Deadline,
		in.WordCountTarget, in.WordCountComplete, in.Notes, now, now)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpCreate, "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpCreate, "", err)
	}

	t, err := getTask(ctx, s.db, id)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpCreate, formatID(id), err)
	}
	return &t, nil
}

// Update merges patch into the stored task
func (s *TaskStore) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpUpdate, err)
	}
	n, ok := rowID(id)
	if !ok {
		return nil, store.NotFound(store.EntityTask, store.OpUpdate, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpUpdate, id, err)
	}
	defer tx.Rollback()

	t, err := getTask(ctx, tx, n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(store.EntityTask, store.OpUpdate, id)
	}
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpUpdate, id, err)
	}

	patch.Apply(&t)
	t.UpdatedAt = store.NextStamp(t.UpdatedAt, s.db.clock()).UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET project_id = ?, title = ?, description = ?, status = ?, deadline = ?,
			word_count_target = ?, word_count_complete = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, t.ProjectID, t.Title, t.Description, string(t.Status), t.Deadline,
		t.WordCountTarget, t.WordCountComplete, t.Notes, stamp(t.UpdatedAt), n)
	if err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpUpdate, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpUpdate, id, err)
	}
	return &t, nil
}

// Delete deletes a task
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.db.deleteRow(ctx, "tasks", store.EntityTask, id)
}
