package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

// isolate points HOME and XDG_CONFIG_HOME at a temp dir and clears MKTODO_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, k := range []string{"MKTODO_DATA_DIR", "MKTODO_DB", "MKTODO_STORAGE_KEY", "MKTODO_LOG_LEVEL", "MKTODO_LOG_FORMAT", "MKTODO_WEB_ADDR"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".mktodo"), cfg.DataDir)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, todo.DefaultStorageKey, cfg.StorageKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultWebAddr, cfg.WebAddr)
	assert.Equal(t, filepath.Join(home, ".mktodo", "tasks.db"), cfg.DBPath())
}

func TestLoad_DefaultFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "config", AppName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("log_level = \"debug\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExplicitFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "mktodo.toml")
	content := `data_dir = "~/tasks"
database = "work.db"
storage_key = "work"
log_format = "json"
web_addr = "127.0.0.1:9999"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks"), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, "tasks", "work.db"), cfg.DBPath())
	assert.Equal(t, "work", cfg.StorageKey)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9999", cfg.WebAddr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mktodo.toml")
	require.NoError(t, os.WriteFile(path, []byte("storage_key = \"file\"\n"), 0o644))
	t.Setenv("MKTODO_STORAGE_KEY", "env")
	t.Setenv("MKTODO_DB", "/var/lib/mktodo/tasks.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.StorageKey)
	assert.Equal(t, "/var/lib/mktodo/tasks.db", cfg.DBPath())
}
