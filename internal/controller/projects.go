package controller

import (
	"context"
	"fmt"

	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Projects is the project list with per-project summaries
type Projects struct {
	page

	projects []models.Project
	tasks    []models.Task
}

// ProjectRow is a project card
type ProjectRow struct {
	models.Project
	Summary derive.ProjectSummary
}

// ProjectsView is a snapshot of the projects page
type ProjectsView struct {
	State
	Rows []ProjectRow
}

func NewProjects(stores store.Set, opts ...Option) *Projects {
	return &Projects{page: newPage(stores, opts)}
}

// Load fetches projects and tasks concurrently
func (c *Projects) Load(ctx context.Context) error {
	gen := c.begin()

	var (
		projects []models.Project
		tasks    []models.Task
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) { projects, err = c.stores.Projects.GetAll(ctx); return },
		func(ctx context.Context) (err error) { tasks, err = c.stores.Tasks.GetAll(ctx); return },
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finish(gen, err) || err != nil {
		return err
	}
	c.projects, c.tasks = projects, tasks
	return nil
}

// View returns the current snapshot. Summaries are computed from the task
// collection, so they stay right even when the cached TaskCount drifts.
func (c *Projects) View() ProjectsView {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]ProjectRow, len(c.projects))
	for i, p := range c.projects {
		rows[i] = ProjectRow{Project: p, Summary: derive.SummarizeProject(c.tasks, p.ID)}
	}
	return ProjectsView{State: c.state(), Rows: rows}
}

// Tasks returns the rows of the tasks assigned to projectID
func (c *Projects) Tasks(projectID string) []TaskRow {
	c.mu.Lock()
	defer c.mu.Unlock()

	var tasks []models.Task
	for _, t := range c.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return taskRows(tasks, c.projects, c.now())
}

func (c *Projects) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	in.Normalize()
	if err := validate(store.EntityProject, store.OpCreate, in.Validate()); err != nil {
		c.fail("create project", err)
		return nil, err
	}
	var created *models.Project
	err := c.mutate(ctx, "create project", c.Load, func() (err error) {
		created, err = c.stores.Projects.Create(ctx, in)
		return err
	})
	if created != nil {
		c.notify(fmt.Sprintf("Created project %q", created.Name), SeveritySuccess)
	}
	return created, err
}

func (c *Projects) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if err := validate(store.EntityProject, store.OpUpdate, patch.Validate()); err != nil {
		c.fail("update project", err)
		return nil, err
	}
	var updated *models.Project
	err := c.mutate(ctx, "update project", c.Load, func() (err error) {
		updated, err = c.stores.Projects.Update(ctx, id, patch)
		return err
	})
	if updated != nil {
		c.notify(fmt.Sprintf("Saved project %q", updated.Name), SeveritySuccess)
	}
	return updated, err
}

// Delete removes the project. Its tasks stay and read as unassigned.
func (c *Projects) Delete(ctx context.Context, id string) error {
	err := c.mutate(ctx, "delete project", c.Load, func() error {
		return c.stores.Projects.Delete(ctx, id)
	})
	if err == nil {
		c.notify("Project deleted", SeveritySuccess)
	}
	return err
}
