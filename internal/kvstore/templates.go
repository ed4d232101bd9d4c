package kvstore

import (
	"context"
	"time"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// TemplateStore implements store.TemplateStore on the templates bucket
type TemplateStore struct {
	s *Store
}

var _ store.TemplateStore = (*TemplateStore)(nil)

func (ts *TemplateStore) GetAll(ctx context.Context) ([]models.Template, error) {
	templates, err := ts.s.templates.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	newestFirst(templates, func(t *models.Template) time.Time { return t.CreatedAt })
	return templates, nil
}

func (ts *TemplateStore) GetByID(ctx context.Context, id string) (*models.Template, error) {
	t, _, err := ts.s.templates.get(ctx, id)
	if err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTemplate, store.OpGet, id, err)
	}
	return t, nil
}

func (ts *TemplateStore) Create(ctx context.Context, in models.TemplateInput) (*models.Template, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpCreate, err)
	}

	now := ts.s.clock()
	t := models.Template{
		ID:              ts.s.newID(),
		Name:            in.Name,
		Title:           in.Title,
		Description:     in.Description,
		WordCountTarget: in.WordCountTarget,
		DeadlineDays:    in.DeadlineDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := ts.s.templates.put(ctx, t.ID, t); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTemplate, store.OpCreate, t.ID, err)
	}
	return &t, nil
}

func (ts *TemplateStore) Update(ctx context.Context, id string, patch models.TemplatePatch) (*models.Template, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpUpdate, err)
	}
	return ts.s.templates.modify(ctx, id, func(t *models.Template) {
		patch.Apply(t)
		t.UpdatedAt = store.NextStamp(t.UpdatedAt, ts.s.clock())
	})
}

func (ts *TemplateStore) Delete(ctx context.Context, id string) error {
	return ts.s.templates.remove(ctx, id)
}
