package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/velora/auth-service/domain/entity"
)

// ErrPendingNotFound is returned when a confirmation id does not resolve,
// whether the record expired, was purged or was already consumed.
var ErrPendingNotFound = errors.New("pending user not found")

// StagingStore holds unconfirmed signups keyed by confirmation id. The TTL is
// advisory storage cleanup; business expiry is enforced by the deletion
// scheduler.
type StagingStore interface {
	Stage(ctx context.Context, confirmationID string, user *entity.PendingUser, ttl time.Duration) error
	Load(ctx context.Context, confirmationID string) (*entity.PendingUser, error)
	// Discard removes the staged record and reports whether a record was
	// actually removed. The removal is atomic: under concurrent confirms
	// exactly one caller observes true.
	Discard(ctx context.Context, confirmationID string) (bool, error)
}
