package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora/auth-service/infrastructure/service/logger"
)

func newLimiter(t *testing.T, cfg Config) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, cfg, logger.NewNop()), mr
}

func TestLimiter(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Enabled:  true,
		Attempts: 3,
		Window:   time.Minute,
		BlockFor: 5 * time.Minute,
	}

	t.Run("AllowsUntilThreshold", func(t *testing.T) {
		limiter, _ := newLimiter(t, cfg)

		for i := 0; i < cfg.Attempts-1; i++ {
			allowed, err := limiter.Allowed(ctx, "ip:10.0.0.1")
			require.NoError(t, err)
			assert.True(t, allowed)
			require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.1"))
		}

		allowed, err := limiter.Allowed(ctx, "ip:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "one attempt left before the threshold")
	})

	t.Run("BlocksAtThreshold", func(t *testing.T) {
		limiter, _ := newLimiter(t, cfg)

		for i := 0; i < cfg.Attempts; i++ {
			require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.2"))
		}

		allowed, err := limiter.Allowed(ctx, "ip:10.0.0.2")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		limiter, _ := newLimiter(t, cfg)

		for i := 0; i < cfg.Attempts; i++ {
			require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.3"))
		}

		allowed, err := limiter.Allowed(ctx, "ip:10.0.0.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("ResetClearsAttempts", func(t *testing.T) {
		limiter, _ := newLimiter(t, cfg)

		require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.5"))
		require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.5"))
		require.NoError(t, limiter.Reset(ctx, "ip:10.0.0.5"))

		require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.5"))
		require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.5"))

		allowed, err := limiter.Allowed(ctx, "ip:10.0.0.5")
		require.NoError(t, err)
		assert.True(t, allowed, "reset must restart the failure count")
	})

	t.Run("BlockExpires", func(t *testing.T) {
		limiter, mr := newLimiter(t, cfg)

		for i := 0; i < cfg.Attempts; i++ {
			require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.6"))
		}
		allowed, err := limiter.Allowed(ctx, "ip:10.0.0.6")
		require.NoError(t, err)
		require.False(t, allowed)

		mr.FastForward(cfg.BlockFor + time.Second)

		allowed, err = limiter.Allowed(ctx, "ip:10.0.0.6")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("DisabledLimiterAlwaysAllows", func(t *testing.T) {
		limiter, _ := newLimiter(t, Config{Enabled: false})

		for i := 0; i < 10; i++ {
			require.NoError(t, limiter.RecordFailure(ctx, "ip:10.0.0.7"))
		}
		allowed, err := limiter.Allowed(ctx, "ip:10.0.0.7")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
