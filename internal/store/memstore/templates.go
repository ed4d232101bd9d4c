package memstore

import (
	"context"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// TemplateStore keeps templates in memory
type TemplateStore struct {
	col   *collection[models.Template]
	clock store.Clock
	newID func() string
}

var _ store.TemplateStore = (*TemplateStore)(nil)

func (s *TemplateStore) GetAll(ctx context.Context) ([]models.Template, error) {
	return s.col.all(nil), nil
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*models.Template, error) {
	t, ok := s.col.get(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *TemplateStore) Create(ctx context.Context, in models.TemplateInput) (*models.Template, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpCreate, err)
	}

	now := s.clock()
	t := models.Template{
		ID:              s.newID(),
		Name:            in.Name,
		Title:           in.Title,
		Description:     in.Description,
		WordCountTarget: in.WordCountTarget,
		DeadlineDays:    in.DeadlineDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.col.prepend(t)
	return &t, nil
}

func (s *TemplateStore) Update(ctx context.Context, id string, patch models.TemplatePatch) (*models.Template, error) {
	if err := patch.Validate(); err != nil {
		return nil, store.Invalid(store.EntityTemplate, store.OpUpdate, err)
	}

	t, ok := s.col.modify(id, func(t *models.Template) {
		patch.Apply(t)
		t.UpdatedAt = store.NextStamp(t.UpdatedAt, s.clock())
	})
	if !ok {
		return nil, store.NotFound(store.EntityTemplate, store.OpUpdate, id)
	}
	return &t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	if !s.col.remove(id) {
		return store.NotFound(store.EntityTemplate, store.OpDelete, id)
	}
	return nil
}
