package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1", c.API.BaseURL)
	assert.Equal(t, 30*time.Second, c.API.Timeout)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, 20, c.Pagination.PageSize)
	assert.Equal(t, []int{7, 30, 90}, c.Signals.WindowDays)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
api:
  timeout: 5s
database:
  path: /var/lib/insidex/trades.db
server:
  cors_origins: ["https://dash.example.com"]
signals:
  window_days: [14]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, []string{"https://dash.example.com"}, c.Server.CORSOrigins)
	assert.Equal(t, 5*time.Second, c.API.Timeout)
	assert.Equal(t, "/var/lib/insidex/trades.db", c.Database.Path)
	assert.Equal(t, []int{14}, c.Signals.WindowDays)
	assert.Equal(t, 8000, c.Server.Port)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("INSIDEX_CONFIG", "")
	t.Setenv("INSIDEX_API_URL", "http://api.internal/api/v1")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal/api/v1", c.API.BaseURL)
	assert.Equal(t, "redis", c.Cache.Redis.Host)
	assert.Equal(t, 6380, c.Cache.Redis.Port)
	assert.Equal(t, "layered", c.Cache.Backend)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	c := Default()
	c.Database.Driver = "postgres"
	assert.ErrorContains(t, c.Validate(), "database.driver")

	c = Default()
	c.Signals.WindowDays = []int{0}
	assert.Error(t, c.Validate())
}
