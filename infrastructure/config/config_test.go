package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/auth?sslmode=disable")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("PASSWORD_SECRET", "pepper")
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
		assert.Equal(t, 30*time.Minute, cfg.StagingTTL)
		assert.Equal(t, 30*time.Minute, cfg.PurgeDelay)
		assert.Equal(t, "amqp", cfg.NotifierMode)
		assert.True(t, cfg.RateLimitEnabled)
		assert.Equal(t, 5, cfg.RateLimitAttempts)
	})

	t.Run("TTLsParsedAsSeconds", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ACCESS_TOKEN_TTL", "900")
		t.Setenv("STAGING_TTL", "3600")
		t.Setenv("PURGE_DELAY", "1800")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, time.Hour, cfg.StagingTTL)
		assert.Equal(t, 30*time.Minute, cfg.PurgeDelay)
	})

	t.Run("MissingDatabaseURL", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingDatabaseURL)
	})

	t.Run("MissingSecrets", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ACCESS_TOKEN_SECRET", "")

		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingAccessSecret)

		setRequiredEnv(t)
		t.Setenv("PASSWORD_SECRET", "")

		_, err = Load()
		assert.ErrorIs(t, err, ErrMissingPasswordSecret)
	})

	t.Run("IdenticalSecretsRejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REFRESH_TOKEN_SECRET", "access-secret")

		_, err := Load()
		assert.ErrorIs(t, err, ErrSecretsNotDistinct)
	})

	t.Run("StagingTTLMustCoverPurgeDelay", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("STAGING_TTL", "60")
		t.Setenv("PURGE_DELAY", "120")

		_, err := Load()
		assert.ErrorIs(t, err, ErrStagingShorterThanDelay)
	})

	t.Run("InvalidNotifierMode", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("NOTIFIER_MODE", "carrier-pigeon")

		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidNotifierMode)
	})
}
