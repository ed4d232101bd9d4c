package kvstore

import (
	"context"
	"time"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// TaskStore implements store.TaskStore on the tasks bucket
type TaskStore struct {
	s *Store
}

var _ store.TaskStore = (*TaskStore)(nil)

func taskCreated(t *models.Task) time.Time { return t.CreatedAt }

func (ts *TaskStore) list(ctx context.Context, keep func(*models.Task) bool) ([]models.Task, error) {
	tasks, err := ts.s.tasks.list(ctx, keep)
	if err != nil {
		return nil, err
	}
	newestFirst(tasks, taskCreated)
	return tasks, nil
}

func (ts *TaskStore) GetAll(ctx context.Context) ([]models.Task, error) {
	return ts.list(ctx, nil)
}

func (ts *TaskStore) GetByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return ts.list(ctx, func(t *models.Task) bool { return t.ProjectID == projectID })
}

func (ts *TaskStore) GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	return ts.list(ctx, func(t *models.Task) bool { return t.Status == status })
}

func (ts *TaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, _, err := ts.s.tasks.get(ctx, id)
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGet, id, err)
	}
	return t, nil
}

func (ts *TaskStore) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpCreate, err)
	}

	t := in.NewTask()
	t.ID = ts.s.newID()
	t.CreatedAt = ts.s.clock()
	t.UpdatedAt = t.CreatedAt

	if err := ts.s.tasks.put(ctx, t.ID, t); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpCreate, t.ID, err)
	}
	return &t, nil
}

func (ts *TaskStore) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpUpdate, err)
	}
	return ts.s.tasks.modify(ctx, id, func(t *models.Task) {
		patch.Apply(t)
		t.UpdatedAt = store.NextStamp(t.UpdatedAt, ts.s.clock())
	})
}

func (ts *TaskStore) Delete(ctx context.Context, id string) error {
	return ts.s.tasks.remove(ctx, id)
}
