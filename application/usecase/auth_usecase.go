package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/velora/auth-service/application/port/inbound"
	"github.com/velora/auth-service/application/port/outbound"
	"github.com/velora/auth-service/domain/apperror"
	"github.com/velora/auth-service/domain/entity"
	"github.com/velora/auth-service/domain/valueobject"
	"github.com/velora/auth-service/infrastructure/service/logger"
)

// AuthUseCase orchestrates the staged-signup state machine:
// NONE -> STAGED -> {CONFIRMED | PURGED}. It never retries store calls;
// retry policy belongs to the transport invoking it.
type AuthUseCase struct {
	accounts   outbound.AccountRepository
	staging    outbound.StagingStore
	ledger     outbound.RevocationLedger
	scheduler  outbound.DeletionScheduler
	tokens     outbound.TokenService
	hasher     outbound.PasswordHasher
	ids        outbound.IDGenerator
	notifier   outbound.ConfirmationNotifier
	logger     logger.Logger
	stagingTTL time.Duration
	purgeDelay time.Duration
}

func NewAuthUseCase(
	accounts outbound.AccountRepository,
	staging outbound.StagingStore,
	ledger outbound.RevocationLedger,
	scheduler outbound.DeletionScheduler,
	tokens outbound.TokenService,
	hasher outbound.PasswordHasher,
	ids outbound.IDGenerator,
	notifier outbound.ConfirmationNotifier,
	log logger.Logger,
	stagingTTL time.Duration,
	purgeDelay time.Duration,
) inbound.AuthUseCase {
	return &AuthUseCase{
		accounts:   accounts,
		staging:    staging,
		ledger:     ledger,
		scheduler:  scheduler,
		tokens:     tokens,
		hasher:     hasher,
		ids:        ids,
		notifier:   notifier,
		logger:     log,
		stagingTTL: stagingTTL,
		purgeDelay: purgeDelay,
	}
}

func (uc *AuthUseCase) Signup(ctx context.Context, req inbound.SignupRequest) (*inbound.SignupResponse, error) {
	if req.Email == "" {
		return nil, apperror.Validation("email is required")
	}
	if req.Password == "" {
		return nil, apperror.Validation("password is required")
	}
	username := req.Username
	if username == "" {
		username = req.Email
	}

	id := uc.ids.NewID()
	digest, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.StoreUnavailable("password hashing", err)
	}

	pending := &entity.PendingUser{
		ID:             id,
		Username:       username,
		Email:          req.Email,
		Phone:          req.Phone,
		Firstname:      req.Firstname,
		Lastname:       req.Lastname,
		HashedPassword: digest,
		CreatedAt:      time.Now().UTC(),
	}

	if err := uc.staging.Stage(ctx, id, pending, uc.stagingTTL); err != nil {
		return nil, uc.storeErr("signup staging", err)
	}
	if err := uc.scheduler.Schedule(ctx, id, uc.purgeDelay); err != nil {
		return nil, uc.storeErr("purge scheduling", err)
	}

	// Fire-and-forget: a lost notification is recoverable by re-signup after
	// the staged record expires, failing the signup here is not.
	if err := uc.notifier.NotifyConfirmation(ctx, id, pending.Email, pending.Username); err != nil {
		uc.logger.Warn(ctx, "confirmation notification failed", map[string]interface{}{
			"subject_id": id,
			"error":      err.Error(),
		})
	}

	uc.logger.Info(ctx, "signup staged", map[string]interface{}{
		"subject_id": id,
		"username":   username,
	})

	return &inbound.SignupResponse{
		ID:       id,
		Username: username,
		Email:    req.Email,
		IsActive: false,
	}, nil
}

func (uc *AuthUseCase) Confirm(ctx context.Context, confirmationID string) (*valueobject.TokenPair, error) {
	if confirmationID == "" {
		return nil, apperror.Validation("confirmation id is required")
	}

	// Cancel must be issued before the record is discarded. If the delayed
	// job is already in flight the consumer's flag check is the race-closer.
	if err := uc.scheduler.Cancel(ctx, confirmationID); err != nil {
		return nil, uc.storeErr("purge cancellation", err)
	}

	pending, err := uc.staging.Load(ctx, confirmationID)
	if err != nil {
		if errors.Is(err, outbound.ErrPendingNotFound) {
			return nil, apperror.NotFound("confirmation id not found or expired")
		}
		return nil, uc.storeErr("staging load", err)
	}

	removed, err := uc.staging.Discard(ctx, confirmationID)
	if err != nil {
		return nil, uc.storeErr("staging discard", err)
	}
	if !removed {
		// A concurrent confirm already consumed the record.
		return nil, apperror.NotFound("confirmation id not found or expired")
	}

	account, err := uc.accounts.Insert(ctx, pending.Promote(entity.DefaultRole))
	if err != nil {
		if errors.Is(err, outbound.ErrAccountExists) {
			return nil, apperror.Validation("account already exists")
		}
		return nil, uc.storeErr("account insert", err)
	}

	uc.logger.Info(ctx, "pending user promoted", map[string]interface{}{
		"subject_id": account.ID,
		"username":   account.Username,
	})

	return uc.issuePair(account)
}

func (uc *AuthUseCase) Login(ctx context.Context, creds valueobject.Credentials) (*valueobject.TokenPair, error) {
	if creds.Password == "" {
		return nil, apperror.Validation("password is required")
	}
	if !creds.HasIdentifier() {
		return nil, apperror.Validation("username or phone is required")
	}

	account, err := uc.accounts.FindByLogin(ctx, outbound.LoginQuery{
		Username: creds.Username,
		Phone:    creds.Phone,
	})
	if err != nil {
		if errors.Is(err, outbound.ErrAccountNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, uc.storeErr("account lookup", err)
	}
	if !account.IsActive {
		return nil, apperror.InvalidCredentials()
	}

	match, err := uc.hasher.Compare(account.HashedPassword, creds.Password)
	if err != nil {
		return nil, apperror.StoreUnavailable("password comparison", err)
	}
	if !match {
		return nil, apperror.InvalidCredentials()
	}

	return uc.issuePair(account)
}

func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error) {
	revoked, err := uc.ledger.IsRevoked(ctx, refreshToken, entity.TokenKindRefresh)
	if err != nil {
		return nil, uc.storeErr("revocation check", err)
	}
	if revoked {
		return nil, apperror.TokenInvalid(nil)
	}

	claims, err := uc.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperror.TokenInvalid(err)
	}

	accessToken, err := uc.tokens.IssueAccess(accountFromClaims(claims))
	if err != nil {
		return nil, apperror.StoreUnavailable("token signing", err)
	}

	// The refresh token is not rotated.
	return valueobject.NewTokenPair(accessToken, refreshToken), nil
}

func (uc *AuthUseCase) Verify(ctx context.Context, accessToken string) (*entity.Claims, error) {
	revoked, err := uc.ledger.IsRevoked(ctx, accessToken, entity.TokenKindAccess)
	if err != nil {
		return nil, uc.storeErr("revocation check", err)
	}
	if revoked {
		return nil, apperror.TokenInvalid(nil)
	}

	claims, err := uc.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, apperror.TokenInvalid(err)
	}
	if !claims.IsActive {
		return nil, apperror.InvalidCredentials()
	}
	return claims, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, accessToken, refreshToken string) error {
	// All-or-nothing: nothing is revoked unless both tokens verify, so a
	// half-failed logout never leaves one token silently live.
	accessClaims, err := uc.tokens.VerifyAccess(accessToken)
	if err != nil {
		return apperror.TokenInvalid(err)
	}
	refreshClaims, err := uc.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return apperror.TokenInvalid(err)
	}

	err = uc.ledger.RevokePair(ctx,
		entity.RevocationEntry{
			TokenValue: accessToken,
			Kind:       entity.TokenKindAccess,
			ExpiresAt:  accessClaims.ExpiresAt,
		},
		entity.RevocationEntry{
			TokenValue: refreshToken,
			Kind:       entity.TokenKindRefresh,
			ExpiresAt:  refreshClaims.ExpiresAt,
		},
	)
	if err != nil {
		return uc.storeErr("token revocation", err)
	}

	uc.logger.Info(ctx, "session revoked", map[string]interface{}{
		"subject_id": accessClaims.SubjectID,
	})
	return nil
}

func (uc *AuthUseCase) issuePair(account *entity.Account) (*valueobject.TokenPair, error) {
	accessToken, err := uc.tokens.IssueAccess(account)
	if err != nil {
		return nil, apperror.StoreUnavailable("token signing", err)
	}
	refreshToken, err := uc.tokens.IssueRefresh(account)
	if err != nil {
		return nil, apperror.StoreUnavailable("token signing", err)
	}
	return valueobject.NewTokenPair(accessToken, refreshToken), nil
}

// storeErr passes typed failures through and translates anything else into
// StoreUnavailable so collaborator internals never leak to callers.
func (uc *AuthUseCase) storeErr(operation string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.StoreUnavailable(operation, err)
}

func accountFromClaims(claims *entity.Claims) *entity.Account {
	return &entity.Account{
		ID:       claims.SubjectID,
		Role:     claims.Role,
		IsActive: claims.IsActive,
	}
}
