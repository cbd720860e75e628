package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/velora/auth-service/domain/entity"
)

const revokedValue = "revoked"

// RevocationLedger denylists tokens under revoked:<kind>:<token> with TTL
// equal to the token's remaining lifetime. Entries for already-expired tokens
// are skipped: a missing key and an expired signature reject the token the
// same way, and an un-expiring key would grow the ledger forever.
type RevocationLedger struct {
	client *redis.Client
}

func NewRevocationLedger(client *redis.Client) *RevocationLedger {
	return &RevocationLedger{client: client}
}

func (l *RevocationLedger) Revoke(ctx context.Context, entry entity.RevocationEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, revocationKey(entry.Kind, entry.TokenValue), revokedValue, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke %s token: %w", entry.Kind, err)
	}
	return nil
}

// RevokePair writes both entries in one pipelined transaction so a logout
// never persists only half of the pair.
func (l *RevocationLedger) RevokePair(ctx context.Context, access, refresh entity.RevocationEntry) error {
	pipe := l.client.TxPipeline()
	for _, entry := range []entity.RevocationEntry{access, refresh} {
		ttl := time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			continue
		}
		pipe.Set(ctx, revocationKey(entry.Kind, entry.TokenValue), revokedValue, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke token pair: %w", err)
	}
	return nil
}

func (l *RevocationLedger) IsRevoked(ctx context.Context, tokenValue string, kind entity.TokenKind) (bool, error) {
	n, err := l.client.Exists(ctx, revocationKey(kind, tokenValue)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

func revocationKey(kind entity.TokenKind, tokenValue string) string {
	return fmt.Sprintf("revoked:%s:%s", kind, tokenValue)
}
