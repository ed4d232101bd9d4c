package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/store/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Set { return New() })
}

func TestSeededInstancesAreIsolated(t *testing.T) {
	ctx := context.Background()
	seed := models.Task{ID: "seed", Title: "Seeded", Status: models.StatusIdeas, Deadline: storetest.Deadline}

	a := New(WithTasks(seed))
	b := New(WithTasks(seed))

	require.NoError(t, a.Tasks.Delete(ctx, "seed"))

	got, err := b.Tasks.GetByID(ctx, "seed")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Seeded", got.Title)
}

func TestReturnedTasksAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New(WithTasks(models.Task{ID: "1", Title: "Original", Deadline: storetest.Deadline}))

	got, err := s.Tasks.GetByID(ctx, "1")
	require.NoError(t, err)
	got.Title = "Mutated"

	all, err := s.Tasks.GetAll(ctx)
	require.NoError(t, err)
	all[0].Title = "Mutated too"

	again, err := s.Tasks.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

func TestUpdateAdvancesWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	s := New(
		WithClock(func() time.Time { return frozen }),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)

	task, err := s.Tasks.Create(ctx, models.TaskInput{Title: "Essay", Deadline: storetest.Deadline})
	require.NoError(t, err)
	assert.Equal(t, "id-1", task.ID)

	notes := "more"
	updated, err := s.Tasks.Update(ctx, task.ID, models.TaskPatch{Notes: &notes})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
}

func TestDefaultTemplatesSeeded(t *testing.T) {
	all, err := New().Templates.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Blog Post Template", all[0].Name)
	assert.Equal(t, 7, all[0].DeadlineDays)
}
