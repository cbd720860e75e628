package outbound

import (
	"context"
)

// ConfirmationNotifier asks the mail side to send a signup confirmation.
// Fire-and-forget: a notification failure never rolls back the signup.
type ConfirmationNotifier interface {
	NotifyConfirmation(ctx context.Context, subjectID, email, username string) error
}

// IDGenerator produces globally unique opaque identifiers, used both as
// account ids and as confirmation handles.
type IDGenerator interface {
	NewID() string
}
