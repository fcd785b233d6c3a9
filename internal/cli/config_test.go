package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todo/pkg/types"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	v, err := loadConfig(dir, true)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(data))

	assert.Equal(t, types.BackendSQLite, v.GetString(cfgKeyBackend))
	assert.Equal(t, types.DefaultDBFile, v.GetString(cfgKeyDBFile))
	assert.Equal(t, "warn", v.GetString(cfgKeyLogLevel))
	assert.Equal(t, "text", v.GetString(cfgKeyLogFormat))
	assert.False(t, v.GetBool(cfgKeyShowCompleted))
	assert.Empty(t, v.GetString(cfgKeyDataDir))
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	v, err := loadConfig(dir, false)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDBFile, v.GetString(cfgKeyDBFile))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "config dir must not be created")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt),
		[]byte("db_file: from_file.db\ndata_dir: /from/file\nlog:\n  level: info\n"), 0o644))

	t.Setenv("TODO_DB_FILE", "from_env.db")
	t.Setenv("TODO_LOG_LEVEL", "debug")
	t.Setenv("TODO_DATA_DIR", "/from/env")

	v, err := loadConfig(dir, false)
	require.NoError(t, err)
	assert.Equal(t, "from_env.db", v.GetString(cfgKeyDBFile))
	assert.Equal(t, "debug", v.GetString(cfgKeyLogLevel))
	assert.Equal(t, "/from/file", v.GetString(cfgKeyDataDir), "config.yaml data_dir outranks the environment")
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [unclosed\n"), 0o644))

	_, err := loadConfig(dir, false)
	assert.Error(t, err)
}

func TestWriteConfigIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileExt)

	created, err := writeConfigIfMissing(path, "", "")
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "db_file: todo_db.db")
	assert.NotContains(t, string(data), "data_dir")

	created, err = writeConfigIfMissing(path, "/elsewhere", "")
	require.NoError(t, err)
	assert.False(t, created)
}
