package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "nats://localhost:4222", cfg.App.NatsURL)
	assert.Equal(t, "http://localhost:8080", cfg.Storage.ServerURL)
	assert.Equal(t, 10, cfg.Storage.RequestTimeoutSeconds)
	assert.Equal(t, 30, cfg.Storage.PermissionCacheTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DOCUMENT_STORAGE_SERVER_URL", "http://storage.internal")
	t.Setenv("PERMISSION_CACHE_TTL_SECONDS", "5")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg := Load()

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "http://storage.internal", cfg.Storage.ServerURL)
	assert.Equal(t, 5, cfg.Storage.PermissionCacheTTL)
	assert.Equal(t, "redis://localhost:6379", cfg.App.RedisURL)
}
