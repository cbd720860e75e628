package rabbitmq

import (
	"context"
	"time"

	"github.com/velora/auth-service/application/port/outbound"
)

// Scheduler implements the deletion scheduler over the broker plus a flag
// store. Scheduling and cancellation stay independent message-passing
// entities correlated only by subject id; the consumer's flag check at fire
// time closes the race between the two.
type Scheduler struct {
	publisher *Publisher
	flags     outbound.CancellationFlags
	flagTTL   time.Duration
}

// NewScheduler requires flagTTL to be at least as long as any delay passed to
// Schedule, so a cancellation mark cannot expire before its task fires.
func NewScheduler(publisher *Publisher, flags outbound.CancellationFlags, flagTTL time.Duration) *Scheduler {
	return &Scheduler{
		publisher: publisher,
		flags:     flags,
		flagTTL:   flagTTL,
	}
}

func (s *Scheduler) Schedule(ctx context.Context, subjectID string, delay time.Duration) error {
	return s.publisher.PublishDeleteTask(ctx, subjectID, delay.Milliseconds())
}

func (s *Scheduler) Cancel(ctx context.Context, subjectID string) error {
	return s.flags.SetCancelled(ctx, subjectID, s.flagTTL)
}
