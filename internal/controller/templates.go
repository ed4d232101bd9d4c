package controller

import (
	"context"
	"fmt"

	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Templates manages task presets
type Templates struct {
	page

	templates []models.Template
}

// TemplatesView is a snapshot of the templates page
type TemplatesView struct {
	State
	Templates []models.Template
}

func NewTemplates(stores store.Set, opts ...Option) *Templates {
	return &Templates{page: newPage(stores, opts)}
}

func (c *Templates) Load(ctx context.Context) error {
	gen := c.begin()
	templates, err := c.stores.Templates.GetAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finish(gen, err) || err != nil {
		return err
	}
	c.templates = templates
	return nil
}

func (c *Templates) View() TemplatesView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TemplatesView{State: c.state(), Templates: append([]models.Template(nil), c.templates...)}
}

func (c *Templates) Create(ctx context.Context, in models.TemplateInput) (*models.Template, error) {
	in.Normalize()
	if err := validate(store.EntityTemplate, store.OpCreate, in.Validate()); err != nil {
		c.fail("create template", err)
		return nil, err
	}
	var created *models.Template
	err := c.mutate(ctx, "create template", c.Load, func() (err error) {
		created, err = c.stores.Templates.Create(ctx, in)
		return err
	})
	if created != nil {
		c.notify(fmt.Sprintf("Created template %q", created.Name), SeveritySuccess)
	}
	return created, err
}

func (c *Templates) Update(ctx context.Context, id string, patch models.TemplatePatch) (*models.Template, error) {
	if err := validate(store.EntityTemplate, store.OpUpdate, patch.Validate()); err != nil {
		c.fail("update template", err)
		return nil, err
	}
	var updated *models.Template
	err := c.mutate(ctx, "update template", c.Load, func() (err error) {
		updated, err = c.stores.Templates.Update(ctx, id, patch)
		return err
	})
	if updated != nil {
		c.notify(fmt.Sprintf("Saved template %q", updated.Name), SeveritySuccess)
	}
	return updated, err
}

func (c *Templates) Delete(ctx context.Context, id string) error {
	err := c.mutate(ctx, "delete template", c.Load, func() error {
		return c.stores.Templates.Delete(ctx, id)
	})
	if err == nil {
		c.notify("Template deleted", SeveritySuccess)
	}
	return err
}
