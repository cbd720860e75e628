package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora/auth-service/application/port/outbound"
	"github.com/velora/auth-service/domain/entity"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func stagedUser() *entity.PendingUser {
	return &entity.PendingUser{
		ID:             "c0ffee00-0000-0000-0000-000000000001",
		Username:       "alice",
		Email:          "alice@example.com",
		Firstname:      "Alice",
		Lastname:       "Doe",
		HashedPassword: "digest",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestStagingStore(t *testing.T) {
	ctx := context.Background()

	t.Run("StageAndLoad", func(t *testing.T) {
		_, client := newTestRedis(t)
		store := NewStagingStore(client)
		user := stagedUser()

		require.NoError(t, store.Stage(ctx, user.ID, user, 30*time.Minute))

		loaded, err := store.Load(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, loaded.Username)
		assert.Equal(t, user.Email, loaded.Email)
		assert.Equal(t, user.HashedPassword, loaded.HashedPassword)
	})

	t.Run("LoadUnknownID", func(t *testing.T) {
		_, client := newTestRedis(t)
		store := NewStagingStore(client)

		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, outbound.ErrPendingNotFound)
	})

	t.Run("DiscardOnce", func(t *testing.T) {
		_, client := newTestRedis(t)
		store := NewStagingStore(client)
		user := stagedUser()
		require.NoError(t, store.Stage(ctx, user.ID, user, 30*time.Minute))

		removed, err := store.Discard(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		// A second discard observes nothing to remove.
		removed, err = store.Discard(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = store.Load(ctx, user.ID)
		assert.ErrorIs(t, err, outbound.ErrPendingNotFound)
	})

	t.Run("TTLEviction", func(t *testing.T) {
		mr, client := newTestRedis(t)
		store := NewStagingStore(client)
		user := stagedUser()
		require.NoError(t, store.Stage(ctx, user.ID, user, 10*time.Minute))

		mr.FastForward(11 * time.Minute)

		_, err := store.Load(ctx, user.ID)
		assert.ErrorIs(t, err, outbound.ErrPendingNotFound)
	})
}
