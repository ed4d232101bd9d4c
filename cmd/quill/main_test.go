package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/quill/internal/derive"
)

// execute runs the CLI with an isolated config home
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quill dev (commit: none, built: unknown)\n", out)
}

func TestStatsMemoryBackend(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Drafting")
	assert.Contains(t, out, "Words")

	out, err = execute(t, "--backend", "memory", "stats", "--json")
	require.NoError(t, err)
	var stats derive.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Zero(t, stats.Total)
}

func TestStatsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quill.db")
	_, err := execute(t, "--backend", "sqlite", "--db", dbPath, "stats")
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database is created on first use")
}

func TestExportICS(t *testing.T) {
	out, err := execute(t, "--backend", "memory", "export-ics")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, out, "END:VCALENDAR\r\n")

	file := filepath.Join(t.TempDir(), "deadlines.ics")
	_, err = execute(t, "--backend", "memory", "export-ics", "-o", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
}

func TestExportICSRejectsUnknownStatus(t *testing.T) {
	_, err := execute(t, "--backend", "memory", "export-ics", "--status", "shelved")
	assert.Error(t, err)
}

func TestUnknownBackend(t *testing.T) {
	_, err := execute(t, "--backend", "postgres", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init"})
	require.NoError(t, cmd.Execute())

	path := strings.TrimSpace(out.String())
	assert.Equal(t, filepath.Join(home, "quill", "config.yaml"), path)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
