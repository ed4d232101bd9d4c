package memstore

import (
	"context"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// ProjectStore keeps projects in memory
type ProjectStore struct {
	col   *collection[models.Project]
	clock store.Clock
	newID func() string
}

var _ store.ProjectStore = (*ProjectStore)(nil)

func (s *ProjectStore) GetAll(ctx context.Context) ([]models.Project, error) {
	return s.col.all(nil), nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, ok := s.col.get(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProjectStore) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpCreate, err)
	}

	now := s.clock()
	p := models.Project{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.col.prepend(p)
	return &p, nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpUpdate, err)
	}

	p, ok := s.col.modify(id, func(p *models.Project) {
		patch.Apply(p)
		p.UpdatedAt = store.NextStamp(p.UpdatedAt, s.clock())
	})
	if !ok {
		return nil, store.NotFound(store.EntityProject, store.OpUpdate, id)
	}
	return &p, nil
}

// Delete removes the project only; its tasks keep their ProjectID
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	if !s.col.remove(id) {
		return store.NotFound(store.EntityProject, store.OpDelete, id)
	}
	return nil
}

func (s *ProjectStore) AdjustTaskCount(ctx context.Context, id string, delta int) error {
	s.col.modify(id, func(p *models.Project) {
		p.TaskCount = max(0, p.TaskCount+delta)
	})
	return nil
}
