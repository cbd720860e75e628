package outbound

import (
	"context"
	"time"
)

// DeletionScheduler emits a delayed "purge pending user" job at signup and
// records a cancellation flag at confirm. Emission is fire-and-forget; the
// transport guarantees at-least-once delivery to the purge consumer.
type DeletionScheduler interface {
	Schedule(ctx context.Context, subjectID string, delay time.Duration) error
	Cancel(ctx context.Context, subjectID string) error
}

// CancellationFlags stores purge-cancellation marks keyed by subject id. The
// scheduler writes them with a TTL at least as long as the scheduled delay;
// the purge consumer reads them at fire time.
type CancellationFlags interface {
	SetCancelled(ctx context.Context, subjectID string, ttl time.Duration) error
	IsCancelled(ctx context.Context, subjectID string) (bool, error)
}
