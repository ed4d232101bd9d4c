package memstore

import (
	"context"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// TaskStore keeps tasks in memory
type TaskStore struct {
	col   *collection[models.Task]
	clock store.Clock
	newID func() string
}

var _ store.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) GetAll(ctx context.Context) ([]models.Task, error) {
	return s.col.all(nil), nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, ok := s.col.get(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *TaskStore) GetByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.col.all(func(t *models.Task) bool { return t.ProjectID == projectID }), nil
}

func (s *TaskStore) GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	return s.col.all(func(t *models.Task) bool { return t.Status == status }), nil
}

func (s *TaskStore) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpCreate, err)
	}

	t := in.NewTask()
	t.ID = s.newID()
	t.CreatedAt = s.clock()
	t.UpdatedAt = t.CreatedAt

	s.col.prepend(t)
	return &t, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTask, store.OpUpdate, err)
	}

	t, ok := s.col.modify(id, func(t *models.Task) {
		patch.Apply(t)
		t.UpdatedAt = store.NextStamp(t.UpdatedAt, s.clock())
	})
	if !ok {
		return nil, store.NotFound(store.EntityTask, store.OpUpdate, id)
	}
	return &t, nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if !s.col.remove(id) {
		return store.NotFound(store.EntityTask, store.OpDelete, id)
	}
	return nil
}
