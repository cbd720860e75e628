package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/velora/auth-service/infrastructure/service/logger"
)

// Limiter throttles repeated login failures per client key. Counters and
// block marks live in Redis so every service instance shares state.
type Limiter interface {
	Allowed(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type Config struct {
	Enabled  bool
	Attempts int
	Window   time.Duration
	BlockFor time.Duration
}

type redisLimiter struct {
	client *redis.Client
	cfg    Config
	logger logger.Logger
}

func New(client *redis.Client, cfg Config, log logger.Logger) Limiter {
	if !cfg.Enabled {
		return noopLimiter{}
	}
	return &redisLimiter{client: client, cfg: cfg, logger: log}
}

func (l *redisLimiter) Allowed(ctx context.Context, key string) (bool, error) {
	blocked, err := l.client.Exists(ctx, blockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	if blocked > 0 {
		return false, nil
	}

	count, err := l.attempts(ctx, key)
	if err != nil {
		return false, err
	}
	return count < l.cfg.Attempts, nil
}

func (l *redisLimiter) RecordFailure(ctx context.Context, key string) error {
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, attemptsKey(key))
	pipe.Expire(ctx, attemptsKey(key), l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	if int(incr.Val()) >= l.cfg.Attempts {
		if err := l.client.Set(ctx, blockKey(key), "blocked", l.cfg.BlockFor).Err(); err != nil {
			return fmt.Errorf("failed to block key: %w", err)
		}
		l.logger.Warn(ctx, "login source blocked", map[string]interface{}{
			"key":       key,
			"attempts":  incr.Val(),
			"block_for": l.cfg.BlockFor.String(),
		})
	}
	return nil
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, attemptsKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

func (l *redisLimiter) attempts(ctx context.Context, key string) (int, error) {
	value, err := l.client.Get(ctx, attemptsKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read attempts: %w", err)
	}
	return value, nil
}

func attemptsKey(key string) string {
	return "login:attempts:" + key
}

func blockKey(key string) string {
	return "login:blocked:" + key
}

type noopLimiter struct{}

func (noopLimiter) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) RecordFailure(context.Context, string) error   { return nil }
func (noopLimiter) Reset(context.Context, string) error           { return nil }
