// Package config provides configuration loading for quill.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendNATS   = "nats"
	BackendRemote = "remote"
)

// Config represents the complete quill configuration
type Config struct {
	// Backend selects the store: memory, sqlite, nats or remote
	Backend string       `yaml:"backend"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	NATS    NATSConfig   `yaml:"nats"`
	Remote  RemoteConfig `yaml:"remote"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	UI      UIConfig     `yaml:"ui"`
}

// SQLiteConfig configures the sqlite backend
type SQLiteConfig struct {
	// Path is the database file (empty = $XDG_DATA_HOME/quill/quill.db)
	Path string `yaml:"path"`
}

// NATSConfig configures the NATS KV backend
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded runs an in-process JetStream server
	Embedded bool `yaml:"embedded"`
	// StoreDir holds embedded JetStream data (empty = data dir)
	StoreDir string `yaml:"store_dir"`
}

// RemoteConfig configures the record API client
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `quill serve`
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// APIKey, when set, is required as a bearer token
	APIKey string `yaml:"api_key"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
	// File receives TUI logs (empty = $XDG_STATE_HOME/quill/quill.log)
	File string `yaml:"file"`
}

// UIConfig configures the terminal UI
type UIConfig struct {
	// Watch reloads views when the sqlite file changes on disk
	Watch bool `yaml:"watch"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendSQLite,
		NATS: NATSConfig{
			Embedded: true,
		},
		Remote: RemoteConfig{
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8420",
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Watch: true,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite:
	case BackendNATS:
		if c.NATS.URL == "" && !c.NATS.Embedded {
			return fmt.Errorf("nats.url is required unless nats.embedded is set")
		}
	case BackendRemote:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.base_url is required for the remote backend")
		}
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote.base_url must be an http(s) URL, got %q", c.Remote.BaseURL)
		}
		if c.Remote.Timeout < 0 {
			return fmt.Errorf("remote.timeout must not be negative")
		}
	default:
		return fmt.Errorf("unknown backend %q (want memory, sqlite, nats or remote)", c.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a level name into a slog.Level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// LogLevel returns the configured level, info when unparsable
func (c *Config) LogLevel() slog.Level {
	level, _ := ParseLevel(c.Log.Level)
	return level
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := loadInto(config, path); err != nil {
		return nil, err
	}
	return config, nil
}

// loadInto decodes path over cfg; keys absent from the file keep their value
func loadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Booleans cannot be cleared this way; use a config file.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.SQLite.Path != "" {
		c.SQLite.Path = other.SQLite.Path
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	}
	if other.NATS.StoreDir != "" {
		c.NATS.StoreDir = other.NATS.StoreDir
	}

	// Remote
	if other.Remote.BaseURL != "" {
		c.Remote.BaseURL = other.Remote.BaseURL
	}
	if other.Remote.APIKey != "" {
		c.Remote.APIKey = other.Remote.APIKey
	}
	if other.Remote.Timeout != 0 {
		c.Remote.Timeout = other.Remote.Timeout
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.APIKey != "" {
		c.Server.APIKey = other.Server.APIKey
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}
}
