package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wait = 3 * time.Second

func start(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	require.NoError(t, w.Start(ctx))
	return w
}

func TestNewDefaults(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "quill.db"), WithDebounce(0))
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, w.names["quill.db"])
	assert.True(t, w.names["quill.db-wal"])
	assert.True(t, w.names["quill.db-journal"])
	assert.False(t, w.names["quill.db-shm"])
}

func TestReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.db")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))
	w := start(t, path)

	require.NoError(t, os.WriteFile(path+"-wal", []byte("frame"), 0o600))

	select {
	case _, ok := <-w.Changes():
		assert.True(t, ok)
	case <-time.After(wait):
		t.Fatal("no change reported")
	}
}

func TestBurstIsDebounced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.db")
	w := start(t, path)

	for i := range 20 {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
	}

	select {
	case <-w.Changes():
	case <-time.After(wait):
		t.Fatal("no change reported")
	}
	select {
	case <-w.Changes():
		t.Fatal("burst reported more than once")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := start(t, filepath.Join(dir, "quill.db"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.db-shm"), []byte("x"), 0o600))

	select {
	case <-w.Changes():
		t.Fatal("unrelated file reported")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestStopClosesChanges(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "quill.db"))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(wait):
		t.Fatal("changes not closed")
	}
}
