package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.True(t, cfg.NATS.Embedded)
	assert.True(t, cfg.UI.Watch)
	assert.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "memory backend", modify: func(c *Config) { c.Backend = BackendMemory }},
		{name: "unknown backend", modify: func(c *Config) { c.Backend = "postgres" }, wantErr: true},
		{
			name:    "remote without url",
			modify:  func(c *Config) { c.Backend = BackendRemote },
			wantErr: true,
		},
		{
			name: "remote with bad url",
			modify: func(c *Config) {
				c.Backend = BackendRemote
				c.Remote.BaseURL = "localhost:8420"
			},
			wantErr: true,
		},
		{
			name: "remote with url",
			modify: func(c *Config) {
				c.Backend = BackendRemote
				c.Remote.BaseURL = "http://localhost:8420"
			},
		},
		{
			name: "nats without url or embedded",
			modify: func(c *Config) {
				c.Backend = BackendNATS
				c.NATS.Embedded = false
			},
			wantErr: true,
		},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "debug log level", modify: func(c *Config) { c.Log.Level = "debug" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: remote
remote:
  base_url: https://records.example.com
  timeout: 5s
ui:
  watch: false
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "https://records.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.False(t, cfg.UI.Watch)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep their defaults")
	assert.Equal(t, "127.0.0.1:8420", cfg.Server.Addr)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Backend = BackendNATS
	cfg.NATS.URL = "nats://localhost:4222"
	cfg.NATS.Embedded = false
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		Backend: BackendNATS,
		NATS:    NATSConfig{URL: "nats://example:4222"},
		Log:     LogConfig{Level: "debug"},
	})

	assert.Equal(t, BackendNATS, cfg.Backend)
	assert.Equal(t, "nats://example:4222", cfg.NATS.URL)
	assert.False(t, cfg.NATS.Embedded, "an explicit url turns off the embedded server")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8420", cfg.Server.Addr)

	cfg.Merge(nil)
	assert.Equal(t, BackendNATS, cfg.Backend)
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	userPath := filepath.Join(home, "quill", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0755))
	require.NoError(t, os.WriteFile(userPath, []byte("backend: memory\nlog:\n  level: warn\n"), 0644))

	explicit := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: error\n"), 0644))

	l := NewLoader(nil)

	cfg, err := l.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())

	cfg, err = l.Load(explicit, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, slog.LevelError, cfg.LogLevel())

	cfg, err = l.Load(explicit, &Config{Backend: BackendSQLite})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err, "an explicit config file must exist")
}

func TestEnsureUserConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := NewLoader(nil).EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, UserConfigPath(), path)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
