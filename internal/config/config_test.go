package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(home, "st8.db"), cfg.Store.SQLitePath)
	assert.Equal(t, filepath.Join(home, "data", "agents.json"), cfg.Server.DataFile)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr())
	assert.Equal(t, BackendFile, cfg.Server.Backend)
	assert.Equal(t, 5000, cfg.Sync.TimeoutMs)
	assert.Equal(t, filepath.Join(home, "logs"), cfg.Log.Dir)
}

func TestLoad_ParsesYAML(t *testing.T) {
	home := t.TempDir()
	body := strings.TrimSpace(`
store:
  driver: JSON
  json_path: /srv/st8/workspace.json
server:
  port: 8080
  backend: mongo
  mongo_database: st8
sync:
  endpoint: http://planning.local:5000
  max_retries: 3
log:
  use_cases: true
`)
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(body), 0o644))

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DriverJSON, cfg.Store.Driver)
	assert.Equal(t, "/srv/st8/workspace.json", cfg.Store.JSONPath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendMongo, cfg.Server.Backend)
	assert.Equal(t, "st8", cfg.Server.MongoDatabase)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Server.MongoURI)
	assert.Equal(t, "http://planning.local:5000", cfg.Sync.Endpoint)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.True(t, cfg.Log.UseCases)
}

func TestLoad_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ST8_STORE", "postgres")
	t.Setenv("ST8_POSTGRES_DSN", "postgres://planner@db/st8")
	t.Setenv("ST8_PORT", "9090")
	t.Setenv("ST8_SYNC_TIMEOUT_MS", "250")
	t.Setenv("ST8_SYNC_MAX_RETRIES", "0")
	t.Setenv("ST8_DEBUG", "true")
	t.Setenv("ST8_DB", ":memory:")

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://planner@db/st8", cfg.Store.PostgresDSN)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Sync.TimeoutMs)
	assert.Zero(t, cfg.Sync.MaxRetries)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, ":memory:", cfg.Store.SQLitePath)
}

func TestLoad_InvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("ST8_PORT", "abc")
	t.Setenv("ST8_SYNC_TIMEOUT_MS", "-5")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Sync.TimeoutMs)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("ST8_STORE", "redis")
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte("store: [unclosed"), 0o644))

	_, err := Load(home)
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	home := filepath.Join(t.TempDir(), "st8home")

	created, err := WriteDefault(home)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = WriteDefault(home)
	require.NoError(t, err)
	assert.False(t, created)

	cfg, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, Default(home).Server.Port, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(home, "data", "agents.json"), cfg.Sync.FallbackFile)
}

func TestHomeDir_Env(t *testing.T) {
	t.Setenv("ST8_HOME", "/opt/st8")
	got, err := HomeDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/st8", got)
}
