package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "")
	t.Setenv("ADMIN_BOOTSTRAP_EMAIL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, 120*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 5, cfg.Throttle.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Throttle.Window())
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
	assert.False(t, cfg.Admin.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "168")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("THROTTLE_MAX_LOGIN_ATTEMPTS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")
	t.Setenv("ADMIN_BOOTSTRAP_EMAIL", "root@example.com")
	t.Setenv("ADMIN_BOOTSTRAP_PASSWORD", "changeme")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 0, cfg.Throttle.MaxLoginAttempts)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Admin.Enabled())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:  AppConfig{Env: "development"},
			Auth: AuthConfig{JWTSecret: "x", TokenTTLHours: 120},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Auth.TokenTTLHours = 0
	assert.ErrorContains(t, cfg.Validate(), "AUTH_TOKEN_TTL_HOURS")

	cfg = valid()
	cfg.App.Env = "production"
	cfg.Auth.JWTSecret = defaultJWTSecret
	assert.ErrorContains(t, cfg.Validate(), "must be set in production")

	cfg = valid()
	cfg.Auth.JWTSecret = "  "
	assert.ErrorContains(t, cfg.Validate(), "must not be empty")

	cfg = valid()
	cfg.Admin = AdminBootstrapConfig{Email: "root@example.com", Password: "123"}
	assert.ErrorContains(t, cfg.Validate(), "ADMIN_BOOTSTRAP_PASSWORD")

	cfg = valid()
	cfg.Admin = AdminBootstrapConfig{Email: "root@example.com", Password: strings.Repeat("é", 40)}
	assert.ErrorContains(t, cfg.Validate(), "at most 72 bytes")
}
