package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "@every 30s", cfg.Sync.Schedule)
	assert.Equal(t, "ServerSync", cfg.Sync.Category)
	assert.Equal(t, 5, cfg.Sync.FetchLimit)
	assert.Equal(t, 10*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, DefaultRemoteURL, cfg.Remote.URL)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SYNC_SCHEDULE", "*/5 * * * *")
	t.Setenv("SYNC_ENABLED", "false")
	t.Setenv("REMOTE_URL", "http://localhost:3000/posts")
	t.Setenv("TASK_WORKERS", "4")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "*/5 * * * *", cfg.Sync.Schedule)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, "http://localhost:3000/posts", cfg.Remote.URL)
	assert.Equal(t, 4, cfg.Tasks.Workers)
}
