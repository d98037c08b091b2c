package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "tillpoint_session", cfg.SessionCookie)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
	assert.True(t, cfg.AuthDemoAccounts)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsPartialAdmin(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "root@tillpoint.dev")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "ADMIN_EMAIL and ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "short")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "at least 8")

	t.Setenv("ADMIN_PASSWORD", "long-enough")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Tillpoint", cfg.AdminCompany)
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AUTH_DEMO_ACCOUNTS", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.AuthDemoAccounts)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)

	t.Setenv("SESSION_TTL", "forever")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&Config{LogFormat: "json", AppEnv: "production"}, &buf).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"env":"production"`)

	buf.Reset()
	newLogger(&Config{LogFormat: "pretty", AppEnv: "production"}, &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}
