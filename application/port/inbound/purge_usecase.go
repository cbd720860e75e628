package inbound

import (
	"context"
)

// PurgeUseCase executes a fired deletion task. It no-ops when the task's
// cancellation flag is set and is idempotent otherwise, so the transport may
// deliver the same job more than once.
type PurgeUseCase interface {
	Execute(ctx context.Context, subjectID string) error
}
