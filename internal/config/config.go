// Package config resolves where mktodo keeps its data and how it logs.
//
// Values are layered: defaults, then a TOML file, then MKTODO_* environment
// variables. Each binary may override the result with its own flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

const (
	// AppName is the application directory name.
	AppName = "mktodo"

	// FileName is the config file looked up in the config directory.
	FileName = "config.toml"

	DefaultDatabase = "tasks.db"
	DefaultWebAddr  = "127.0.0.1:8080"
)

// Config holds resolved settings.
type Config struct {
	// DataDir holds the database. Default ~/.mktodo.
	DataDir string `toml:"data_dir"`

	// Database is the SQLite file name, relative to DataDir unless absolute.
	Database string `toml:"database"`

	// StorageKey names the snapshot row inside the database.
	StorageKey string `toml:"storage_key"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// WebAddr is the listen address of the web view. Loopback by default.
	WebAddr string `toml:"web_addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir(),
		Database:   DefaultDatabase,
		StorageKey: todo.DefaultStorageKey,
		LogLevel:   "info",
		LogFormat:  "text",
		WebAddr:    DefaultWebAddr,
	}
}

// Load resolves the configuration. If path is empty the default config file is
// read when present; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)
	cfg.DataDir = expandPath(cfg.DataDir)
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("MKTODO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MKTODO_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("MKTODO_STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
	}
	if v := os.Getenv("MKTODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MKTODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("MKTODO_WEB_ADDR"); v != "" {
		cfg.WebAddr = v
	}
}

// DefaultDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), FileName)
}

// DefaultDataDir returns ~/.mktodo, or .mktodo when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, "."+AppName)
}

// DBPath returns the absolute or DataDir-relative database path.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
