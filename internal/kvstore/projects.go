package kvstore

import (
	"context"
	"time"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// ProjectStore implements store.ProjectStore on the projects bucket
type ProjectStore struct {
	s *Store
}

var _ store.ProjectStore = (*ProjectStore)(nil)

func (ps *ProjectStore) GetAll(ctx context.Context) ([]models.Project, error) {
	projects, err := ps.s.projects.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	newestFirst(projects, func(p *models.Project) time.Time { return p.CreatedAt })
	return projects, nil
}

func (ps *ProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, _, err := ps.s.projects.get(ctx, id)
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityProject, store.OpGet, id, err)
	}
	return p, nil
}

func (ps *ProjectStore) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpCreate, err)
	}

	now := ps.s.clock()
	p := models.Project{
		ID:          ps.s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ps.s.projects.put(ctx, p.ID, p); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityProject, store.OpCreate, p.ID, err)
	}
	return &p, nil
}

func (ps *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityProject, store.OpUpdate, err)
	}
	return ps.s.projects.modify(ctx, id, func(p *models.Project) {
		patch.Apply(p)
		p.UpdatedAt = store.NextStamp(p.UpdatedAt, ps.s.clock())
	})
}

// Delete removes the project entry only
func (ps *ProjectStore) Delete(ctx context.Context, id string) error {
	return ps.s.projects.remove(ctx, id)
}

func (ps *ProjectStore) AdjustTaskCount(ctx context.Context, id string, delta int) error {
	_, err := ps.s.projects.modify(ctx, id, func(p *models.Project) {
		p.TaskCount = max(0, p.TaskCount+delta)
	})
	if store.KindOf(err) == store.ErrNotFound {
		return nil
	}
	return err
}
