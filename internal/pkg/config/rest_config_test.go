//go:build unit
// +build unit

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rest-app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeRestConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
logger:
  log_level: debug
  log_type: console
database:
  type: sqlite
  dsn: "file::memory:?cache=shared"
  name: tokens
tokenization:
  cache:
    ttl: 30s
    maximum_size: 10
resilience:
  enabled: false
`)

	cfg, err := InitializeRestConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, LogLevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, "file::memory:?cache=shared", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Tokenization.Cache.TTL)
	assert.Equal(t, 10, cfg.Tokenization.Cache.MaximumSize)
	assert.False(t, cfg.Resilience.Enabled)
	// untouched keys fall back to defaults
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Tokenization.Idempotency.CacheTTL)
}

func TestInitializeRestConfig_Defaults(t *testing.T) {
	cfg, err := InitializeRestConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SqliteDbType, cfg.Database.Type)
	assert.Equal(t, 10*time.Minute, cfg.Tokenization.Cache.TTL)
	assert.True(t, cfg.Resilience.Enabled)
	assert.False(t, cfg.Events.Enabled)
}

func TestInitializeRestConfig_EnvironmentOverride(t *testing.T) {
	t.Setenv("TOKENIZATION_PORT", "7070")
	t.Setenv("TOKENIZATION_TOKENIZATION_CACHE_TTL", "2m")

	cfg, err := InitializeRestConfig("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.Tokenization.Cache.TTL)
}

func TestInitializeRestConfig_RejectsNonPositiveTTL(t *testing.T) {
	path := writeConfig(t, `
tokenization:
  cache:
    ttl: 0s
`)

	_, err := InitializeRestConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive_duration")
}

func TestInitializeRestConfig_MissingFile(t *testing.T) {
	_, err := InitializeRestConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestInitializeRestConfig_ShippedConfig(t *testing.T) {
	cfg, err := InitializeRestConfig(filepath.Join("..", "..", "..", "configs", "rest-app.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SqliteDbType, cfg.Database.Type)
	assert.True(t, cfg.Resilience.Enabled)
	assert.False(t, cfg.Events.Enabled)
}
