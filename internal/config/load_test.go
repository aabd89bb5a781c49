package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devDoc = `{
  "server": {"port": 3000, "static_dir": "_front-end", "log_level": "debug"},
  "database": {"driver": "mongodb", "connection_string": "mongodb://localhost:27017", "name": "dev_db"}
}`

const prodDoc = `{
  "server": {"port": 3000, "static_dir": "public", "log_level": "info"},
  "database": {"driver": "postgres", "connection_string": "host=db user=app dbname=catalog"},
  "rabbitmq": {"url": "amqp://guest:guest@mq:5672/"}
}`

func writeConfigs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config-dev.json"), []byte(devDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config-prod.json"), []byte(prodDoc), 0o600))
	return dir
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_DevWithoutPlatformPort(t *testing.T) {
	unsetEnv(t, config.PlatformPortEnv)
	dir := writeConfigs(t)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "config-dev.json", config.FileName())
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "mongodb", cfg.Database.Driver)
	assert.Equal(t, "dev_db", cfg.Database.Name)
	assert.Equal(t, "product_events", cfg.RabbitMQ.Queue)
	assert.False(t, cfg.EventsEnabled())
}

func TestLoad_ProdWhenPlatformPortSet(t *testing.T) {
	t.Setenv(config.PlatformPortEnv, "8080")
	dir := writeConfigs(t)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "config-prod.json", config.FileName())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "public", cfg.Server.StaticDir)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.EventsEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	unsetEnv(t, config.PlatformPortEnv)
	t.Setenv("CATALOG_DATABASE_DRIVER", "memory")
	t.Setenv("CATALOG_SERVER_LOG_LEVEL", "warn")
	dir := writeConfigs(t)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	unsetEnv(t, config.PlatformPortEnv)
	t.Setenv("CATALOG_DATABASE_DRIVER", "cassandra")
	dir := writeConfigs(t)

	_, err := config.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_MissingFile(t *testing.T) {
	unsetEnv(t, config.PlatformPortEnv)

	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config-dev.json")
}
