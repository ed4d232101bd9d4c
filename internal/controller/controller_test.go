package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/store/memstore"
)

var now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func seeded() store.Set {
	return memstore.New(
		memstore.WithClock(clock),
		memstore.WithProjects(
			models.Project{ID: "p1", Name: "Blog", Color: models.DefaultColor, TaskCount: 2},
			models.Project{ID: "p2", Name: "Book", Color: models.DefaultColor},
		),
		memstore.WithTasks(
			models.Task{ID: "t1", Title: "Go generics", ProjectID: "p1", Status: models.StatusDrafting,
				Deadline: models.NewDate(2024, time.March, 9), WordCountTarget: 1000, WordCountComplete: 250},
			models.Task{ID: "t2", Title: "Release notes", Description: "for v2", ProjectID: "p1", Status: models.StatusEditing,
				Deadline: models.NewDate(2024, time.March, 12), WordCountTarget: 500},
			models.Task{ID: "t3", Title: "Essay", Status: models.StatusPublished,
				Deadline: models.NewDate(2024, time.February, 1), UpdatedAt: time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)},
			models.Task{ID: "t4", Title: "Pitch", Status: models.StatusSubmitted,
				Deadline: models.NewDate(2024, time.March, 1), UpdatedAt: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)},
		),
	)
}

// failingTasks fails every call with err while err is set
type failingTasks struct {
	store.TaskStore
	mu  sync.Mutex
	err error
}

func (f *failingTasks) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *failingTasks) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *failingTasks) GetAll(ctx context.Context) ([]models.Task, error) {
	if err := f.fail(); err != nil {
		return nil, store.Wrap(store.ErrLoad, store.EntityTask, store.OpGetAll, "", err)
	}
	return f.TaskStore.GetAll(ctx)
}

func (f *failingTasks) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if err := f.fail(); err != nil {
		return nil, store.Wrap(store.ErrPersist, store.EntityTask, store.OpUpdate, id, err)
	}
	return f.TaskStore.Update(ctx, id, patch)
}

func projectCount(t *testing.T, s store.Set, id string) int {
	t.Helper()
	p, err := s.Projects.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.TaskCount
}

func titles(rows []TaskRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func TestTasksViewDerivesRows(t *testing.T) {
	ctx := context.Background()
	c := NewTasks(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))

	v := c.View()
	assert.False(t, v.Loading)
	assert.NoError(t, v.Err)
	assert.Equal(t, 4, v.Stats.Total)
	assert.Len(t, v.Rows, 4)
	assert.Len(t, v.Templates, 3)

	row := v.Rows[0]
	assert.Equal(t, "Go generics", row.Title)
	assert.True(t, row.HasProject)
	assert.Equal(t, "Blog", row.Project.Name)
	assert.Equal(t, derive.UrgencyOverdue, row.Urgency)
	assert.Equal(t, 25.0, row.Progress)

	essay := v.Rows[2]
	assert.False(t, essay.HasProject)
}

func TestTasksFilterAndQuery(t *testing.T) {
	ctx := context.Background()
	c := NewTasks(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))

	c.SetFilter(derive.StatusFilter(models.StatusEditing))
	assert.Equal(t, []string{"Release notes"}, titles(c.View().Rows))

	c.SetFilter(derive.FilterAll)
	c.SetQuery("V2")
	assert.Equal(t, []string{"Release notes"}, titles(c.View().Rows))

	c.SetQuery("nothing matches")
	v := c.View()
	assert.Empty(t, v.Rows)
	assert.Equal(t, 4, v.Stats.Total, "stats ignore filter and query")
}

func TestTasksCreateSyncsProjectCount(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	c := NewTasks(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	created, err := c.Create(ctx, models.TaskInput{Title: "  New post ", ProjectID: "p2", Deadline: models.NewDate(2024, time.April, 1)})
	require.NoError(t, err)
	assert.Equal(t, "New post", created.Title)
	assert.Equal(t, models.StatusDrafting, created.Status)
	assert.Equal(t, 1, projectCount(t, s, "p2"))
	assert.Len(t, c.View().Rows, 5)

	n, ok := c.TakeNotice()
	require.True(t, ok)
	assert.Equal(t, SeveritySuccess, n.Severity)
	_, ok = c.TakeNotice()
	assert.False(t, ok, "notice is cleared once taken")
}

func TestTasksCreateRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	c := NewTasks(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	_, err := c.Create(ctx, models.TaskInput{Title: " ", Deadline: models.NewDate(2024, time.April, 1)})
	require.ErrorIs(t, err, store.ErrValidation)

	n, ok := c.TakeNotice()
	require.True(t, ok)
	assert.Equal(t, SeverityError, n.Severity)
	assert.Contains(t, n.Message, "title")

	all, err := s.Tasks.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTasksMoveBetweenProjects(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	c := NewTasks(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	pid := "p2"
	_, err := c.Update(ctx, "t1", models.TaskPatch{ProjectID: &pid})
	require.NoError(t, err)
	assert.Equal(t, 1, projectCount(t, s, "p1"))
	assert.Equal(t, 1, projectCount(t, s, "p2"))

	require.NoError(t, c.Delete(ctx, "t1"))
	assert.Equal(t, 0, projectCount(t, s, "p2"))
}

func TestTasksAdvanceAndAddWords(t *testing.T) {
	ctx := context.Background()
	c := NewTasks(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))

	got, err := c.AdvanceStatus(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusEditing, got.Status)

	got, err = c.AddWords(ctx, "t1", 500)
	require.NoError(t, err)
	assert.Equal(t, 750, got.WordCountComplete)

	got, err = c.AddWords(ctx, "t1", 5000)
	require.NoError(t, err)
	assert.Equal(t, 1000, got.WordCountComplete, "clamped at target")

	_, err = c.AddWords(ctx, "t1", 0)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "words", ve.Field)
}

func TestTasksNotFoundReloads(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	c := NewTasks(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	// another client removes the task behind our back
	require.NoError(t, s.Tasks.Delete(ctx, "t2"))

	_, err := c.SetStatus(ctx, "t2", models.StatusSubmitted)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, ok := c.TakeNotice()
	require.True(t, ok)
	assert.Contains(t, n.Message, "Could not update task")
	assert.NotContains(t, titles(c.View().Rows), "Release notes")
}

func TestTasksLoadFailureAndRetry(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	tasks := &failingTasks{TaskStore: s.Tasks}
	s.Tasks = tasks
	c := NewTasks(s, WithClock(clock))

	tasks.set(errors.New("disk on fire"))
	require.ErrorIs(t, c.Load(ctx), store.ErrLoad)
	v := c.View()
	require.Error(t, v.Err)
	assert.Empty(t, v.Rows)

	n, ok := c.TakeNotice()
	require.True(t, ok)
	assert.Equal(t, SeverityError, n.Severity)

	tasks.set(nil)
	require.NoError(t, c.Load(ctx))
	v = c.View()
	assert.NoError(t, v.Err)
	assert.Len(t, v.Rows, 4)
}

func TestTasksPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	tasks := &failingTasks{TaskStore: s.Tasks}
	s.Tasks = tasks
	c := NewTasks(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	tasks.set(errors.New("read-only"))
	_, err := c.SetStatus(ctx, "t1", models.StatusEditing)
	require.ErrorIs(t, err, store.ErrPersist)

	n, ok := c.TakeNotice()
	require.True(t, ok)
	assert.Equal(t, "Failed to update task", n.Message)
	assert.Equal(t, models.StatusDrafting, c.View().Rows[0].Status)
}

// gatedTasks blocks the first GetAll until release is closed, then returns
// the stale snapshot taken before the block
type gatedTasks struct {
	store.TaskStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTasks) GetAll(ctx context.Context) ([]models.Task, error) {
	first := false
	g.once.Do(func() { first = true })
	if !first {
		return g.TaskStore.GetAll(ctx)
	}
	stale, err := g.TaskStore.GetAll(ctx)
	close(g.entered)
	<-g.release
	return stale, err
}

func TestTasksDiscardsStaleLoad(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	gated := &gatedTasks{TaskStore: s.Tasks, entered: make(chan struct{}), release: make(chan struct{})}
	s.Tasks = gated
	c := NewTasks(s, WithClock(clock))

	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()
	<-gated.entered

	require.NoError(t, gated.TaskStore.Delete(ctx, "t4"))
	require.NoError(t, c.Load(ctx))
	close(gated.release)
	require.NoError(t, <-done)

	assert.Len(t, c.View().Rows, 3, "the older load must not overwrite the newer one")
}

func TestTasksFromTemplate(t *testing.T) {
	ctx := context.Background()
	c := NewTasks(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))

	tpl := c.View().Templates[0]
	in, ok := c.FromTemplate(tpl.ID)
	require.True(t, ok)
	assert.Equal(t, tpl.WordCountTarget, in.WordCountTarget)
	assert.Equal(t, models.DateOf(now).AddDays(tpl.DeadlineDays), in.Deadline)

	_, ok = c.FromTemplate("missing")
	assert.False(t, ok)
}

func TestProjectsSummariesAndDelete(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	c := NewProjects(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	v := c.View()
	require.Len(t, v.Rows, 2)
	blog := v.Rows[0]
	assert.Equal(t, "Blog", blog.Name)
	assert.Equal(t, 2, blog.Summary.Total)
	assert.Equal(t, 250, blog.Summary.TotalWords)
	assert.Equal(t, 2, blog.Summary.InProgress)
	assert.Len(t, c.Tasks("p1"), 2)

	require.NoError(t, c.Delete(ctx, "p1"))
	assert.Len(t, c.View().Rows, 1)

	orphan, err := s.Tasks.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, orphan, "deleting a project keeps its tasks")
	assert.Equal(t, "p1", orphan.ProjectID)
}

func TestProjectsCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	c := NewProjects(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))

	_, err := c.Create(ctx, models.ProjectInput{})
	require.ErrorIs(t, err, store.ErrValidation)

	p, err := c.Create(ctx, models.ProjectInput{Name: "Newsletter"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultColor, p.Color)

	name := "Weekly newsletter"
	p, err = c.Update(ctx, p.ID, models.ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)

	_, err = c.Update(ctx, "gone", models.ProjectPatch{Name: &name})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCalendarNavigation(t *testing.T) {
	ctx := context.Background()
	c := NewCalendar(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))

	v := c.View()
	assert.Equal(t, models.NewDate(2024, time.March, 1), v.Month)
	assert.Equal(t, models.NewDate(2024, time.March, 10), v.Selected)
	assert.Len(t, v.Days, 31)
	assert.Equal(t, 5, v.Leading, "March 1st 2024 is a Friday")
	require.Len(t, v.Upcoming, 1)
	assert.Equal(t, "Release notes", v.Upcoming[0].Title)

	c.MoveSelection(2)
	v = c.View()
	assert.Equal(t, []string{"Release notes"}, titles(v.SelectedTasks))

	c.PrevMonth()
	v = c.View()
	assert.Equal(t, models.NewDate(2024, time.February, 1), v.Month)
	assert.Equal(t, []string{"Essay"}, titles(v.SelectedTasks))
	assert.Len(t, v.Days, 29)

	c.MoveSelection(-1)
	assert.Equal(t, models.NewDate(2024, time.January, 1), c.View().Month)

	c.NextMonth()
	c.NextMonth()
	c.Today()
	v = c.View()
	assert.Equal(t, models.NewDate(2024, time.March, 1), v.Month)
	assert.Equal(t, v.Today, v.Selected)
}

func TestArchiveGroupsAndRestore(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	c := NewArchive(s, WithClock(clock))
	require.NoError(t, c.Load(ctx))

	v := c.View()
	assert.Equal(t, derive.StatusFilter(models.StatusPublished), v.Filter)
	assert.Equal(t, 1, v.Submitted)
	assert.Equal(t, 1, v.Published)
	require.Len(t, v.Groups, 1)
	assert.Equal(t, "February 2024", v.Groups[0].Label)

	c.SetFilter(derive.FilterAll)
	v = c.View()
	require.Len(t, v.Groups, 2)
	assert.Equal(t, "March 2024", v.Groups[0].Label)
	assert.Equal(t, "February 2024", v.Groups[1].Label)

	c.SetQuery("pitch")
	require.Len(t, c.View().Groups, 1)

	require.NoError(t, c.Restore(ctx, "t4"))
	assert.Empty(t, c.View().Groups)
	restored, err := s.Tasks.GetByID(ctx, "t4")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDrafting, restored.Status)

	c.SetQuery("")
	require.NoError(t, c.Delete(ctx, "t3"))
	assert.Empty(t, c.View().Groups)
}

func TestTemplatesLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewTemplates(seeded(), WithClock(clock))
	require.NoError(t, c.Load(ctx))
	assert.Len(t, c.View().Templates, 3)

	_, err := c.Create(ctx, models.TemplateInput{Title: "Thread"})
	require.ErrorIs(t, err, store.ErrValidation)

	tpl, err := c.Create(ctx, models.TemplateInput{Name: "Thread", Title: "Thread: ", DeadlineDays: 2, WordCountTarget: 300})
	require.NoError(t, err)
	assert.Len(t, c.View().Templates, 4)

	days := 3
	tpl, err = c.Update(ctx, tpl.ID, models.TemplatePatch{DeadlineDays: &days})
	require.NoError(t, err)
	assert.Equal(t, 3, tpl.DeadlineDays)

	require.NoError(t, c.Delete(ctx, tpl.ID))
	assert.Len(t, c.View().Templates, 3)

	require.ErrorIs(t, c.Delete(ctx, tpl.ID), store.ErrNotFound)
}

func TestLoadAllCancelsSiblingsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	cancelled := make(chan struct{})

	err := loadAll(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			close(cancelled)
			return ctx.Err()
		},
	)
	require.ErrorIs(t, err, boom)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("sibling load was not cancelled")
	}
}

func TestLoadAllWaitsForEveryLoader(t *testing.T) {
	var mu sync.Mutex
	done := 0
	load := func(ctx context.Context) error {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		done++
		mu.Unlock()
		return nil
	}

	require.NoError(t, loadAll(context.Background(), load, load, load))
	assert.Equal(t, 3, done)
}
