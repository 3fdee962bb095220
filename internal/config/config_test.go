package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "safespend.json", cfg.App.DataFile)
	assert.Equal(t, SyncNone, cfg.Sync.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.BaseDelay)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.NeedsDatabase())
	assert.Equal(t, "postgres://postgres:@localhost:5432/safespend?sslmode=disable", cfg.ConnectionString())

	pool := cfg.PoolOptions()
	assert.Equal(t, 25, pool.MaxOpenConns)
	assert.Equal(t, 5, pool.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, pool.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, pool.PingTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SYNC_BACKEND", "amqp")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://app.example.com")
	t.Setenv("DATA_FILE", "/tmp/ledger.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SyncAMQP, cfg.Sync.Backend)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/ledger.json", cfg.App.DataFile)
	assert.True(t, cfg.NeedsDatabase())
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("SYNC_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sync backend")
}
