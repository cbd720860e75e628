package outbound

import (
	"context"

	"github.com/velora/auth-service/domain/entity"
)

// RevocationLedger is a TTL-bounded denylist of tokens invalidated before
// their natural expiry. An entry lives exactly as long as its token would
// have; absence means "not revoked".
type RevocationLedger interface {
	Revoke(ctx context.Context, entry entity.RevocationEntry) error
	// RevokePair records both tokens of a session in a single round trip so
	// logout never leaves one of the pair live.
	RevokePair(ctx context.Context, access, refresh entity.RevocationEntry) error
	IsRevoked(ctx context.Context, tokenValue string, kind entity.TokenKind) (bool, error)
}
