package backend

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/config"
	"github.com/tgienger/quill/internal/db"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/recordapi"
	"github.com/tgienger/quill/internal/store/memstore"
)

func TestOpenMemory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendMemory

	b, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Nil(t, b.Settings)
	assert.Empty(t, b.WatchPath)

	templates, err := b.Stores.Templates.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, templates, 3)
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "data", "quill.db")

	b, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, cfg.SQLite.Path, b.WatchPath)
	require.NotNil(t, b.Settings)
	require.NoError(t, b.Settings.SetSetting(context.Background(), "last_view", "archive"))

	_, err = b.Stores.Projects.Create(context.Background(), models.ProjectInput{Name: "Novel"})
	require.NoError(t, err)
}

func TestOpenSQLiteDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg := config.DefaultConfig()

	b, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	want, err := db.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, want, b.WatchPath)
}

func TestOpenRemote(t *testing.T) {
	srv := httptest.NewServer(recordapi.New(memstore.New()).Handler())
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendRemote
	cfg.Remote.BaseURL = srv.URL

	b, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	templates, err := b.Stores.Templates.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, templates, 3)
}

func TestOpenEmbeddedNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendNATS
	cfg.NATS.StoreDir = t.TempDir()

	b, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	p, err := b.Stores.Projects.Create(context.Background(), models.ProjectInput{Name: "Stream"})
	require.NoError(t, err)
	got, err := b.Stores.Projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Stream", got.Name)
}

func TestOpenUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = "postgres"
	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}
