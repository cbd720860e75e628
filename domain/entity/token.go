package entity

import (
	"time"
)

// TokenKind distinguishes the two token families, which are signed with
// separate keys and revoked independently.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the decoded payload of a signed token. Claims are never persisted;
// only the signed encoding is transmitted.
type Claims struct {
	SubjectID string
	Role      string
	IsActive  bool
	ExpiresAt time.Time
}

// Remaining reports the token's lifetime left at the given instant, floored
// at zero.
func (c *Claims) Remaining(now time.Time) time.Duration {
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// RevocationEntry marks a token invalid until its natural expiry. Its TTL in
// the ledger equals the token's remaining lifetime at revocation time.
type RevocationEntry struct {
	TokenValue string
	Kind       TokenKind
	ExpiresAt  time.Time
}

// DeletionTask is the delayed purge job emitted at signup. The cancellation
// flag is stored separately and correlated only by SubjectID.
type DeletionTask struct {
	SubjectID string    `json:"subject_id"`
	FireAt    time.Time `json:"fire_at"`
}
