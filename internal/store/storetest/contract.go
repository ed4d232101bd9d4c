// Package storetest holds the behavior every backend must share. Backend
// packages run it from their own tests so the memory, sqlite and remote
// implementations stay indistinguishable to callers.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
)

// Factory returns a fresh, isolated store set
type Factory func(t *testing.T) store.Set

// Run exercises the full store contract against a backend
func Run(t *testing.T, newSet Factory) {
	t.Run("task create defaults", func(t *testing.T) { testTaskCreateDefaults(t, newSet(t)) })
	t.Run("task create validation", func(t *testing.T) { testTaskCreateValidation(t, newSet(t)) })
	t.Run("task update round trip", func(t *testing.T) { testTaskUpdateRoundTrip(t, newSet(t)) })
	t.Run("task update unknown", func(t *testing.T) { testTaskUpdateUnknown(t, newSet(t)) })
	t.Run("task delete then get", func(t *testing.T) { testTaskDelete(t, newSet(t)) })
	t.Run("task filters", func(t *testing.T) { testTaskFilters(t, newSet(t)) })
	t.Run("project lifecycle", func(t *testing.T) { testProjectLifecycle(t, newSet(t)) })
	t.Run("project delete does not cascade", func(t *testing.T) { testProjectDeleteKeepsTasks(t, newSet(t)) })
	t.Run("project task count", func(t *testing.T) { testProjectTaskCount(t, newSet(t)) })
	t.Run("template lifecycle", func(t *testing.T) { testTemplateLifecycle(t, newSet(t)) })
	t.Run("empty and unknown ids", func(t *testing.T) { testMissingIDs(t, newSet(t)) })
}

// Deadline used by fixture tasks
var Deadline = models.NewDate(2030, time.May, 20)

func newTask(title string) models.TaskInput {
	return models.TaskInput{
		Title:           title,
		Description:     "about " + title,
		Deadline:        Deadline,
		WordCountTarget: 1000,
	}
}

func testTaskCreateDefaults(t *testing.T, s store.Set) {
	ctx := context.Background()

	task, err := s.Tasks.Create(ctx, newTask("Essay"))
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, models.StatusDrafting, task.Status)
	assert.Equal(t, 0, task.WordCountComplete)
	assert.Equal(t, Deadline, task.Deadline)
	assert.False(t, task.CreatedAt.IsZero())
	assert.True(t, task.CreatedAt.Equal(task.UpdatedAt))

	all, err := s.Tasks.GetAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, task.ID, all[0].ID, "newest task comes first")

	got, err := s.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.Deadline, got.Deadline)
}

func testTaskCreateValidation(t *testing.T, s store.Set) {
	ctx := context.Background()

	_, err := s.Tasks.Create(ctx, models.TaskInput{Deadline: Deadline})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrValidation), "got %v", err)

	_, err = s.Tasks.Create(ctx, models.TaskInput{Title: "No deadline"})
	require.Error(t, err)
	assert.Equal(t, store.ErrValidation, store.KindOf(err))

	all, err := s.Tasks.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected creates must not be stored")
}

func testTaskUpdateRoundTrip(t *testing.T, s store.Set) {
	ctx := context.Background()

	created, err := s.Tasks.Create(ctx, models.TaskInput{
		Title:             "Blog post",
		Description:       "Draft for the blog",
		ProjectID:         "p-1",
		Deadline:          Deadline,
		WordCountTarget:   1200,
		WordCountComplete: 300,
		Notes:             "remember the intro",
	})
	require.NoError(t, err)

	status := models.StatusEditing
	updated, err := s.Tasks.Update(ctx, created.ID, models.TaskPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusEditing, updated.Status)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.ProjectID, updated.ProjectID)
	assert.Equal(t, created.Deadline, updated.Deadline)
	assert.Equal(t, created.WordCountTarget, updated.WordCountTarget)
	assert.Equal(t, created.WordCountComplete, updated.WordCountComplete)
	assert.Equal(t, created.Notes, updated.Notes)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt must advance")

	again, err := s.Tasks.Update(ctx, created.ID, models.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	bad := models.Status("done")
	_, err = s.Tasks.Update(ctx, created.ID, models.TaskPatch{Status: &bad})
	assert.True(t, errors.Is(err, store.ErrValidation), "got %v", err)
}

func testTaskUpdateUnknown(t *testing.T, s store.Set) {
	title := "x"
	_, err := s.Tasks.Update(context.Background(), "does-not-exist", models.TaskPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func testTaskDelete(t *testing.T, s store.Set) {
	ctx := context.Background()

	task, err := s.Tasks.Create(ctx, newTask("Delete me"))
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Delete(ctx, task.ID))

	got, err := s.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.Tasks.Delete(ctx, task.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func testTaskFilters(t *testing.T, s store.Set) {
	ctx := context.Background()

	a := newTask("A")
	a.ProjectID = "p-1"
	a.Status = models.StatusIdeas
	b := newTask("B")
	b.ProjectID = "p-2"
	b.Status = models.StatusPublished
	c := newTask("C")
	c.ProjectID = "p-1"
	c.Status = models.StatusPublished
	for _, in := range []models.TaskInput{a, b, c} {
		_, err := s.Tasks.Create(ctx, in)
		require.NoError(t, err)
	}

	byProject, err := s.Tasks.GetByProject(ctx, "p-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "C"}, titles(byProject))

	byStatus, err := s.Tasks.GetByStatus(ctx, models.StatusPublished)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B", "C"}, titles(byStatus))

	none, err := s.Tasks.GetByProject(ctx, "p-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testProjectLifecycle(t *testing.T, s store.Set) {
	ctx := context.Background()

	_, err := s.Projects.Create(ctx, models.ProjectInput{Name: "  "})
	assert.True(t, errors.Is(err, store.ErrValidation), "got %v", err)

	p, err := s.Projects.Create(ctx, models.ProjectInput{Name: "Newsletter", Description: "Weekly"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.DefaultColor, p.Color)
	assert.Equal(t, 0, p.TaskCount)

	color := "#9B59B6"
	updated, err := s.Projects.Update(ctx, p.ID, models.ProjectPatch{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Newsletter", updated.Name)
	assert.Equal(t, "Weekly", updated.Description)
	assert.Equal(t, color, updated.Color)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	require.NoError(t, s.Projects.Delete(ctx, p.ID))
	got, err := s.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.Projects.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	_, err = s.Projects.Update(ctx, p.ID, models.ProjectPatch{Color: &color})
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func testProjectDeleteKeepsTasks(t *testing.T, s store.Set) {
	ctx := context.Background()

	p, err := s.Projects.Create(ctx, models.ProjectInput{Name: "Novel"})
	require.NoError(t, err)
	in := newTask("Chapter 1")
	in.ProjectID = p.ID
	task, err := s.Tasks.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, s.Projects.Delete(ctx, p.ID))

	got, err := s.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ProjectID, "task keeps its dangling project reference")
}

func testProjectTaskCount(t *testing.T, s store.Set) {
	ctx := context.Background()

	p, err := s.Projects.Create(ctx, models.ProjectInput{Name: "Counted"})
	require.NoError(t, err)

	require.NoError(t, s.Projects.AdjustTaskCount(ctx, p.ID, 2))
	require.NoError(t, s.Projects.AdjustTaskCount(ctx, p.ID, -1))
	got, err := s.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TaskCount)

	require.NoError(t, s.Projects.AdjustTaskCount(ctx, p.ID, -5))
	got, err = s.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TaskCount, "count never drops below zero")

	assert.NoError(t, s.Projects.AdjustTaskCount(ctx, "missing", 1))
}

func testTemplateLifecycle(t *testing.T, s store.Set) {
	ctx := context.Background()

	_, err := s.Templates.Create(ctx, models.TemplateInput{Title: "No name"})
	assert.True(t, errors.Is(err, store.ErrValidation), "got %v", err)

	tpl, err := s.Templates.Create(ctx, models.TemplateInput{
		Name:            "Essay",
		Title:           "New Essay",
		Description:     "An essay",
		WordCountTarget: 2000,
		DeadlineDays:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, tpl.DeadlineDays)

	days := 3
	updated, err := s.Templates.Update(ctx, tpl.ID, models.TemplatePatch{DeadlineDays: &days})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.DeadlineDays)
	assert.Equal(t, "New Essay", updated.Title)
	assert.Equal(t, 2000, updated.WordCountTarget)

	all, err := s.Templates.GetAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, templateNames(all), "Essay")

	require.NoError(t, s.Templates.Delete(ctx, tpl.ID))
	got, err := s.Templates.GetByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(s.Templates.Delete(ctx, tpl.ID), store.ErrNotFound))
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func templateNames(tpls []models.Template) []string {
	out := make([]string, len(tpls))
	for i, t := range tpls {
		out[i] = t.Name
	}
	return out
}

// testMissingIDs checks that ids naming nothing, including the empty id, read
// as absent and fail writes with NotFound on every backend
func testMissingIDs(t *testing.T, s store.Set) {
	ctx := context.Background()
	name := "x"

	for _, id := range []string{"", "does-not-exist"} {
		task, err := s.Tasks.GetByID(ctx, id)
		require.NoError(t, err, "task get %q", id)
		assert.Nil(t, task)
		_, err = s.Tasks.Update(ctx, id, models.TaskPatch{Title: &name})
		assert.True(t, errors.Is(err, store.ErrNotFound), "task update %q: got %v", id, err)
		err = s.Tasks.Delete(ctx, id)
		assert.True(t, errors.Is(err, store.ErrNotFound), "task delete %q: got %v", id, err)

		project, err := s.Projects.GetByID(ctx, id)
		require.NoError(t, err, "project get %q", id)
		assert.Nil(t, project)
		_, err = s.Projects.Update(ctx, id, models.ProjectPatch{Name: &name})
		assert.True(t, errors.Is(err, store.ErrNotFound), "project update %q: got %v", id, err)
		err = s.Projects.Delete(ctx, id)
		assert.True(t, errors.Is(err, store.ErrNotFound), "project delete %q: got %v", id, err)
		assert.NoError(t, s.Projects.AdjustTaskCount(ctx, id, 1), "task count %q", id)

		template, err := s.Templates.GetByID(ctx, id)
		require.NoError(t, err, "template get %q", id)
		assert.Nil(t, template)
		_, err = s.Templates.Update(ctx, id, models.TemplatePatch{Name: &name})
		assert.True(t, errors.Is(err, store.ErrNotFound), "template update %q: got %v", id, err)
		err = s.Templates.Delete(ctx, id)
		assert.True(t, errors.Is(err, store.ErrNotFound), "template delete %q: got %v", id, err)
	}
}
