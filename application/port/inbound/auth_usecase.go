package inbound

import (
	"context"

	"github.com/velora/auth-service/domain/entity"
	"github.com/velora/auth-service/domain/valueobject"
)

type SignupRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

type SignupResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// AuthUseCase exposes the staged-signup and token-lifecycle operations. Every
// method returns either a payload or a typed apperror failure; wire format and
// status codes belong to the transport layer.
type AuthUseCase interface {
	// Signup stages the new identity, schedules its delayed purge and
	// triggers the confirmation notification.
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	// Confirm promotes a staged signup to a durable account and issues the
	// first token pair. At most one confirm per id succeeds.
	Confirm(ctx context.Context, confirmationID string) (*valueobject.TokenPair, error)
	Login(ctx context.Context, creds valueobject.Credentials) (*valueobject.TokenPair, error)
	// Refresh issues a new access token; the refresh token is not rotated.
	Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error)
	Verify(ctx context.Context, accessToken string) (*entity.Claims, error)
	// Logout revokes both tokens, all-or-nothing: if either fails
	// verification neither is revoked.
	Logout(ctx context.Context, accessToken, refreshToken string) error
}
