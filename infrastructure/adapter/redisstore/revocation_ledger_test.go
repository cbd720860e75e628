package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora/auth-service/domain/entity"
)

func TestRevocationLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("RevokeThenCheck", func(t *testing.T) {
		_, client := newTestRedis(t)
		ledger := NewRevocationLedger(client)

		entry := entity.RevocationEntry{
			TokenValue: "token-a",
			Kind:       entity.TokenKindAccess,
			ExpiresAt:  time.Now().Add(10 * time.Minute),
		}
		require.NoError(t, ledger.Revoke(ctx, entry))

		revoked, err := ledger.IsRevoked(ctx, "token-a", entity.TokenKindAccess)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("KindsAreIndependent", func(t *testing.T) {
		_, client := newTestRedis(t)
		ledger := NewRevocationLedger(client)

		require.NoError(t, ledger.Revoke(ctx, entity.RevocationEntry{
			TokenValue: "token-b",
			Kind:       entity.TokenKindAccess,
			ExpiresAt:  time.Now().Add(time.Minute),
		}))

		revoked, err := ledger.IsRevoked(ctx, "token-b", entity.TokenKindRefresh)
		require.NoError(t, err)
		assert.False(t, revoked, "revoking an access token must not touch the refresh namespace")
	})

	t.Run("TTLNeverExceedsRemainingLifetime", func(t *testing.T) {
		_, client := newTestRedis(t)
		ledger := NewRevocationLedger(client)

		remaining := 5 * time.Minute
		entry := entity.RevocationEntry{
			TokenValue: "token-c",
			Kind:       entity.TokenKindRefresh,
			ExpiresAt:  time.Now().Add(remaining),
		}
		require.NoError(t, ledger.Revoke(ctx, entry))

		ttl, err := client.TTL(ctx, revocationKey(entity.TokenKindRefresh, "token-c")).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, remaining)
	})

	t.Run("ExpiredTokenNeedsNoEntry", func(t *testing.T) {
		_, client := newTestRedis(t)
		ledger := NewRevocationLedger(client)

		require.NoError(t, ledger.Revoke(ctx, entity.RevocationEntry{
			TokenValue: "token-d",
			Kind:       entity.TokenKindAccess,
			ExpiresAt:  time.Now().Add(-time.Minute),
		}))

		revoked, err := ledger.IsRevoked(ctx, "token-d", entity.TokenKindAccess)
		require.NoError(t, err)
		assert.False(t, revoked, "already-expired tokens are rejected by verification, not the ledger")
	})

	t.Run("RevokePairWritesBoth", func(t *testing.T) {
		_, client := newTestRedis(t)
		ledger := NewRevocationLedger(client)

		exp := time.Now().Add(time.Hour)
		err := ledger.RevokePair(ctx,
			entity.RevocationEntry{TokenValue: "pair-access", Kind: entity.TokenKindAccess, ExpiresAt: exp},
			entity.RevocationEntry{TokenValue: "pair-refresh", Kind: entity.TokenKindRefresh, ExpiresAt: exp},
		)
		require.NoError(t, err)

		for _, check := range []struct {
			token string
			kind  entity.TokenKind
		}{
			{"pair-access", entity.TokenKindAccess},
			{"pair-refresh", entity.TokenKindRefresh},
		} {
			revoked, err := ledger.IsRevoked(ctx, check.token, check.kind)
			require.NoError(t, err)
			assert.True(t, revoked, "expected %s/%s revoked", check.kind, check.token)
		}
	})

	t.Run("EntryDisappearsAtTokenExpiry", func(t *testing.T) {
		mr, client := newTestRedis(t)
		ledger := NewRevocationLedger(client)

		require.NoError(t, ledger.Revoke(ctx, entity.RevocationEntry{
			TokenValue: "token-e",
			Kind:       entity.TokenKindAccess,
			ExpiresAt:  time.Now().Add(2 * time.Minute),
		}))

		mr.FastForward(3 * time.Minute)

		revoked, err := ledger.IsRevoked(ctx, "token-e", entity.TokenKindAccess)
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
