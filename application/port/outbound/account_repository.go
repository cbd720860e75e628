package outbound

import (
	"context"
	"errors"

	"github.com/velora/auth-service/domain/entity"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// LoginQuery looks an account up by exactly one identifier. Username wins
// when both are set.
type LoginQuery struct {
	Username string
	Phone    string
}

// AccountRepository is the durable account store.
type AccountRepository interface {
	Insert(ctx context.Context, account *entity.Account) (*entity.Account, error)
	FindByLogin(ctx context.Context, query LoginQuery) (*entity.Account, error)
	// DeleteInactive removes the account row only while it is still inactive,
	// which makes the scheduled purge idempotent and keeps confirmed accounts
	// safe from a late-firing job.
	DeleteInactive(ctx context.Context, id string) (bool, error)
}
