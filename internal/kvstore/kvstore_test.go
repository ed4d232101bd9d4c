package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/store/storetest"
)

func startServer(t *testing.T) *Embedded {
	t.Helper()
	ns, err := StartEmbedded(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(ns.Stop)
	return ns
}

func connect(t *testing.T, url string, opts ...Option) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, url, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContract(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	storetest.Run(t, func(t *testing.T) store.Set {
		return connect(t, startServer(t).ClientURL()).Stores()
	})
}

func TestTemplatesSeededOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	ctx := context.Background()
	url := startServer(t).ClientURL()

	first := connect(t, url).Stores()
	all, err := first.Templates.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NoError(t, first.Templates.Delete(ctx, all[0].ID))

	// Reopening finds the existing bucket and does not reseed
	second := connect(t, url).Stores()
	all, err = second.Templates.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTasksSharedBetweenClients(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	ctx := context.Background()
	url := startServer(t).ClientURL()

	a := connect(t, url).Stores()
	b := connect(t, url).Stores()

	created, err := a.Tasks.Create(ctx, models.TaskInput{Title: "Shared", Deadline: storetest.Deadline})
	require.NoError(t, err)

	got, err := b.Tasks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Shared", got.Title)
}

func TestValidKey(t *testing.T) {
	assert.True(t, validKey("2f1c0c4e-8a0b-4c53-9a55-0c4b1a3e6f77"))
	assert.True(t, validKey("42"))
	assert.False(t, validKey(""))
	assert.False(t, validKey("has space"))
	assert.False(t, validKey("wild*"))
	assert.False(t, validKey(".leading"))
}

func TestNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}
	newestFirst(tasks, taskCreated)
	assert.Equal(t, "new", tasks[0].ID)
	assert.Equal(t, "mid", tasks[1].ID)
	assert.Equal(t, "old", tasks[2].ID)
}
