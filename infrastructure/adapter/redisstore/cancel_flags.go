package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CancelFlags stores purge-cancellation marks under task:<id>:cancelled.
// The flag and the delayed task it cancels are correlated only by subject id.
type CancelFlags struct {
	client *redis.Client
}

func NewCancelFlags(client *redis.Client) *CancelFlags {
	return &CancelFlags{client: client}
}

func (f *CancelFlags) SetCancelled(ctx context.Context, subjectID string, ttl time.Duration) error {
	if err := f.client.Set(ctx, cancelKey(subjectID), "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cancellation flag: %w", err)
	}
	return nil
}

func (f *CancelFlags) IsCancelled(ctx context.Context, subjectID string) (bool, error) {
	n, err := f.client.Exists(ctx, cancelKey(subjectID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read cancellation flag: %w", err)
	}
	return n > 0, nil
}

func cancelKey(subjectID string) string {
	return fmt.Sprintf("task:%s:cancelled", subjectID)
}
