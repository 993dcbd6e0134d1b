package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("EXPORT_MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Export.UseSSL)
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "DB_SSLMODE", "LOG_LEVEL", "OUTPUT_FORMAT", "DOC_DIR"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "davical_dba", cfg.Database.User)
	assert.Equal(t, "davical", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.TimeoutSec)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "table", cfg.OutputFormat)
	assert.Equal(t, "/usr/share/doc/davical-cmdlnut/", cfg.DocDir)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmdlnutl.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=fromfile\nDB_USER=fromfile\n"), 0o600))

	t.Setenv("DB_USER", "fromenv")
	// t.Setenv restores DB_NAME after the test even though godotenv sets it.
	t.Setenv("DB_NAME", "")
	require.NoError(t, os.Unsetenv("DB_NAME"))

	require.NoError(t, LoadFile(path))

	cfg := Load()
	assert.Equal(t, "fromfile", cfg.Database.Name)
	assert.Equal(t, "fromenv", cfg.Database.User)
}

func TestLoadFile_Missing(t *testing.T) {
	err := LoadFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")

	assert.NoError(t, LoadFile(""))
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "")
	assert.Equal(t, 10, getEnvInt(key, 10))
}
