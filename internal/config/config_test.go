package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delta-student/wanderlust/internal/platform/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "wanderlust", cfg.MongoDatabase)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}
