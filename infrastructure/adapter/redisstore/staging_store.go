package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/velora/auth-service/application/port/outbound"
	"github.com/velora/auth-service/domain/entity"
)

const stagingKeyPrefix = "pending:"

// StagingStore keeps unconfirmed signups as JSON values under
// pending:<confirmation_id>. The TTL is storage cleanup only; the deletion
// scheduler owns business expiry.
type StagingStore struct {
	client *redis.Client
}

func NewStagingStore(client *redis.Client) *StagingStore {
	return &StagingStore{client: client}
}

func (s *StagingStore) Stage(ctx context.Context, confirmationID string, user *entity.PendingUser, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode pending user: %w", err)
	}
	if err := s.client.Set(ctx, stagingKey(confirmationID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to stage pending user: %w", err)
	}
	return nil
}

func (s *StagingStore) Load(ctx context.Context, confirmationID string) (*entity.PendingUser, error) {
	raw, err := s.client.Get(ctx, stagingKey(confirmationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrPendingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending user: %w", err)
	}

	var user entity.PendingUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode pending user: %w", err)
	}
	return &user, nil
}

// Discard deletes the staged record. DEL's reply count makes the removal
// atomic: under concurrent confirms exactly one caller sees true.
func (s *StagingStore) Discard(ctx context.Context, confirmationID string) (bool, error) {
	removed, err := s.client.Del(ctx, stagingKey(confirmationID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to discard pending user: %w", err)
	}
	return removed > 0, nil
}

func stagingKey(confirmationID string) string {
	return stagingKeyPrefix + confirmationID
}
