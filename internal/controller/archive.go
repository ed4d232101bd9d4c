package controller

import (
	"context"
	"fmt"

	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// ArchiveFilters are the choices offered on the archive page
var ArchiveFilters = []derive.StatusFilter{
	derive.FilterAll,
	derive.StatusFilter(models.StatusSubmitted),
	derive.StatusFilter(models.StatusPublished),
}

// Archive lists submitted and published work grouped by month
type Archive struct {
	page

	filter   derive.StatusFilter
	query    string
	tasks    []models.Task
	projects []models.Project
}

// ArchiveGroupView is one month of archived rows
type ArchiveGroupView struct {
	Label string
	Rows  []TaskRow
}

// ArchiveView is a snapshot of the archive page
type ArchiveView struct {
	State
	Filter derive.StatusFilter
	Query  string
	Groups []ArchiveGroupView
	// Counts are totals per archived status, ignoring filter and query
	Submitted int
	Published int
}

func NewArchive(stores store.Set, opts ...Option) *Archive {
	return &Archive{
		page:   newPage(stores, opts),
		filter: derive.StatusFilter(models.StatusPublished),
	}
}

func (c *Archive) Load(ctx context.Context) error {
	gen := c.begin()

	var (
		tasks    []models.Task
		projects []models.Project
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) { tasks, err = c.stores.Tasks.GetAll(ctx); return },
		func(ctx context.Context) (err error) { projects, err = c.stores.Projects.GetAll(ctx); return },
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finish(gen, err) || err != nil {
		return err
	}
	c.tasks, c.projects = derive.Archived(tasks), projects
	return nil
}

func (c *Archive) View() ArchiveView {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	grouped := derive.GroupArchive(derive.FilterTasks(c.tasks, c.filter, c.query), now.Location())
	groups := make([]ArchiveGroupView, 0, len(grouped.Labels))
	for _, g := range grouped.Ordered() {
		groups = append(groups, ArchiveGroupView{Label: g.Label, Rows: taskRows(g.Tasks, c.projects, now)})
	}

	stats := derive.ComputeStats(c.tasks)
	return ArchiveView{
		State:     c.state(),
		Filter:    c.filter,
		Query:     c.query,
		Groups:    groups,
		Submitted: stats.Submitted,
		Published: stats.Published,
	}
}

// SetFilter selects all, submitted or published
func (c *Archive) SetFilter(f derive.StatusFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

func (c *Archive) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// Restore sends an archived task back to drafting
func (c *Archive) Restore(ctx context.Context, id string) error {
	status := models.StatusDrafting
	var restored *models.Task
	err := c.mutate(ctx, "restore task", c.Load, func() (err error) {
		restored, err = c.stores.Tasks.Update(ctx, id, models.TaskPatch{Status: &status})
		return err
	})
	if restored != nil {
		c.notify(fmt.Sprintf("Restored %q to drafting", restored.Title), SeveritySuccess)
	}
	return err
}

// Delete removes an archived task for good
func (c *Archive) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	before, known := findTask(c.tasks, id)
	c.mu.Unlock()

	err := c.mutate(ctx, "delete task", c.Load, func() error {
		if err := c.stores.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		if known {
			c.syncTaskCount(ctx, before.ProjectID, "")
		}
		return nil
	})
	if err == nil {
		c.notify("Task deleted", SeveritySuccess)
	}
	return err
}
