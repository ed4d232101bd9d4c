package controller

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Tasks is the home page: stats, the filtered task list and task editing
type Tasks struct {
	page

	filter    derive.StatusFilter
	query     string
	tasks     []models.Task
	projects  []models.Project
	templates []models.Template
}

// TasksView is a snapshot of the home page
type TasksView struct {
	State
	Filter    derive.StatusFilter
	Query     string
	Stats     derive.Stats
	Rows      []TaskRow
	Projects  []models.Project
	Templates []models.Template
}

// NewTasks creates the home page controller
func NewTasks(stores store.Set, opts ...Option) *Tasks {
	return &Tasks{page: newPage(stores, opts), filter: derive.FilterAll}
}

// Load fetches tasks, projects and templates concurrently. A failure leaves
// the page in an error state until Load succeeds.
func (c *Tasks) Load(ctx context.Context) error {
	gen := c.begin()

	var (
		tasks     []models.Task
		projects  []models.Project
		templates []models.Template
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) { tasks, err = c.stores.Tasks.GetAll(ctx); return },
		func(ctx context.Context) (err error) { projects, err = c.stores.Projects.GetAll(ctx); return },
		func(ctx context.Context) (err error) { templates, err = c.stores.Templates.GetAll(ctx); return },
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finish(gen, err) || err != nil {
		return err
	}
	c.tasks, c.projects, c.templates = tasks, projects, templates
	return nil
}

// View returns the current snapshot
func (c *Tasks) View() TasksView {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := derive.FilterTasks(c.tasks, c.filter, c.query)
	return TasksView{
		State:     c.state(),
		Filter:    c.filter,
		Query:     c.query,
		Stats:     derive.ComputeStats(c.tasks),
		Rows:      taskRows(visible, c.projects, c.now()),
		Projects:  append([]models.Project(nil), c.projects...),
		Templates: append([]models.Template(nil), c.templates...),
	}
}

// SetFilter selects "all" or one status
func (c *Tasks) SetFilter(f derive.StatusFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// SetQuery sets the search text
func (c *Tasks) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

func (c *Tasks) lookup(id string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return findTask(c.tasks, id)
}

// Create adds a task. Invalid input is rejected before the store is called.
func (c *Tasks) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in.Normalize()
	if err := validate(store.EntityTask, store.OpCreate, in.Validate()); err != nil {
		c.fail("create task", err)
		return nil, err
	}

	var created *models.Task
	err := c.mutate(ctx, "create task", c.Load, func() (err error) {
		created, err = c.stores.Tasks.Create(ctx, in)
		if err == nil {
			c.syncTaskCount(ctx, "", created.ProjectID)
		}
		return err
	})
	if created != nil {
		c.notify(fmt.Sprintf("Created %q", created.Title), SeveritySuccess)
	}
	return created, err
}

// Update applies a partial change and keeps project counters in step
func (c *Tasks) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := validate(store.EntityTask, store.OpUpdate, patch.Validate()); err != nil {
		c.fail("update task", err)
		return nil, err
	}

	before, known := c.lookup(id)
	var updated *models.Task
	err := c.mutate(ctx, "update task", c.Load, func() (err error) {
		updated, err = c.stores.Tasks.Update(ctx, id, patch)
		if err == nil && known {
			c.syncTaskCount(ctx, before.ProjectID, updated.ProjectID)
		}
		return err
	})
	return updated, err
}

// Save submits the edit form: every field is replaced
func (c *Tasks) Save(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	in.Normalize()
	if err := validate(store.EntityTask, store.OpUpdate, in.Validate()); err != nil {
		c.fail("update task", err)
		return nil, err
	}
	t, err := c.Update(ctx, id, in.Patch())
	if err == nil {
		c.notify(fmt.Sprintf("Saved %q", t.Title), SeveritySuccess)
	}
	return t, err
}

// SetStatus moves a task to status
func (c *Tasks) SetStatus(ctx context.Context, id string, status models.Status) (*models.Task, error) {
	return c.Update(ctx, id, models.TaskPatch{Status: &status})
}

// AdvanceStatus moves a task to the next pipeline stage
func (c *Tasks) AdvanceStatus(ctx context.Context, id string) (*models.Task, error) {
	t, ok := c.lookup(id)
	if !ok {
		err := store.NotFound(store.EntityTask, store.OpUpdate, id)
		c.fail("update task", err)
		_ = c.Load(ctx)
		return nil, err
	}
	return c.SetStatus(ctx, id, t.Status.Next())
}

// AddWords is the progress shortcut: complete grows by n, clamped at target
func (c *Tasks) AddWords(ctx context.Context, id string, n int) (*models.Task, error) {
	t, ok := c.lookup(id)
	if !ok {
		err := store.NotFound(store.EntityTask, store.OpUpdate, id)
		c.fail("add words", err)
		_ = c.Load(ctx)
		return nil, err
	}
	complete, ok := derive.AddWords(t, n)
	if !ok {
		err := store.Invalid(store.EntityTask, store.OpUpdate,
			&models.ValidationError{Field: "words", Message: "must be a positive number"})
		c.fail("add words", err)
		return nil, err
	}
	updated, err := c.Update(ctx, id, models.TaskPatch{WordCountComplete: &complete})
	if err == nil {
		c.notify("Added "+strconv.Itoa(n)+" words", SeveritySuccess)
	}
	return updated, err
}

// Delete removes a task and decrements its project's counter
func (c *Tasks) Delete(ctx context.Context, id string) error {
	before, known := c.lookup(id)
	return c.mutate(ctx, "delete task", c.Load, func() error {
		if err := c.stores.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		if known {
			c.syncTaskCount(ctx, before.ProjectID, "")
		}
		c.notify("Task deleted", SeveritySuccess)
		return nil
	})
}

// FromTemplate prefills the new-task form from a template
func (c *Tasks) FromTemplate(templateID string) (models.TaskInput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tpl := range c.templates {
		if tpl.ID == templateID {
			return derive.ApplyTemplate(tpl, c.now()), true
		}
	}
	return models.TaskInput{}, false
}
