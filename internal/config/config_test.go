package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: "dev"
storage:
  driver: "memory"
redis:
  enabled: false
cors:
  allowed_origins: ["https://portfolio.example"]
social:
  - kind: "instagram"
    url: "https://instagram.com/portfolio"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://portfolio.example"}, cfg.CORS.AllowedOrigins)
	require.Len(t, cfg.Social, 1)
	assert.Equal(t, "instagram", cfg.Social[0].Kind)

	// defaults
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, int64(104857600), cfg.Media.MaxFileSize)
	assert.Equal(t, int64(5), cfg.RateLimit.ContactPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.Sweeper.GracePeriod)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "config file does not exist")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{PGSQL: PQSQL{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "portfolio", SSLMode: "disable"}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=portfolio sslmode=disable", cfg.PostgresDSN())
}
