package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/store"
	"github.com/tgienger/quill/internal/store/storetest"
)

func openTemp(t *testing.T, opts ...Option) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "quill.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Set { return openTemp(t).Stores() })
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg-data/quill/quill.db", path)
}

func TestTemplatesSeededOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quill.db")

	db, err := Open(path)
	require.NoError(t, err)
	s := db.Stores()

	all, err := s.Templates.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Blog Post Template", all[0].Name)

	require.NoError(t, s.Templates.Delete(ctx, all[0].ID))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	all, err = db.Stores().Templates.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "deleted presets stay deleted after reopen")
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quill.db")

	db, err := Open(path)
	require.NoError(t, err)
	created, err := db.Stores().Tasks.Create(ctx, models.TaskInput{
		Title:    "Persisted",
		Deadline: models.NewDate(2024, time.July, 1),
		Status:   models.StatusEditing,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Stores().Tasks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Persisted", got.Title)
	assert.Equal(t, models.StatusEditing, got.Status)
	assert.Equal(t, models.NewDate(2024, time.July, 1), got.Deadline)
	assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
}

func TestUpdateAdvancesWithFrozenClock(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := openTemp(t, WithClock(func() time.Time { return frozen })).Stores()

	p, err := s.Projects.Create(ctx, models.ProjectInput{Name: "Frozen"})
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(frozen))

	name := "Thawed"
	updated, err := s.Projects.Update(ctx, p.ID, models.ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	again, err := s.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.Equal(updated.UpdatedAt))
}

func TestForeignIDsAreNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t).Stores()

	got, err := s.Tasks.GetByID(ctx, "not-a-number")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.Tasks.Delete(ctx, "abc")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	v, err := db.GetSetting(ctx, "last_view")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetSetting(ctx, "last_view", "calendar"))
	require.NoError(t, db.SetSetting(ctx, "last_view", "archive"))

	v, err = db.GetSetting(ctx, "last_view")
	require.NoError(t, err)
	assert.Equal(t, "archive", v)
}

func TestProjectCount(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	for _, name := range []string{"One", "Two"} {
		_, err := db.Stores().Projects.Create(ctx, models.ProjectInput{Name: name})
		require.NoError(t, err)
	}
	n, err := db.ProjectCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
