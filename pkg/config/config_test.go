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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, SourceDir, cfg.Indexer.Source)
	assert.Equal(t, "whitespace", cfg.Indexer.Analyzer)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, "page-ingest", cfg.Kafka.Topics.PageIngest)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9000
  requestTimeout: 2s
indexer:
  source: none
  analyzer: stem
redis:
  enabled: true
  cacheTTL: 5m
search:
  defaultLimit: 3
  maxResults: 20
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv("SP_SERVER_PORT", "9100")
	t.Setenv("SP_REDIS_ADDR", "cache:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, SourceNone, cfg.Indexer.Source)
	assert.Equal(t, "stem", cfg.Indexer.Analyzer)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 3, cfg.Search.DefaultLimit)
	// untouched sections keep their defaults
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Indexer.Source = "s3" }},
		{"dir without path", func(c *Config) { c.Indexer.DataDir = "" }},
		{"postgres source disabled", func(c *Config) { c.Indexer.Source = SourcePostgres }},
		{"zero default limit", func(c *Config) { c.Search.DefaultLimit = 0 }},
		{"default above max", func(c *Config) { c.Search.DefaultLimit = 500 }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, defaultConfig().Validate())
}

func TestDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", p.DSN())
}
