package usecase

import (
	"context"
	"errors"

	"github.com/velora/auth-service/application/port/inbound"
	"github.com/velora/auth-service/application/port/outbound"
	"github.com/velora/auth-service/domain/apperror"
	"github.com/velora/auth-service/infrastructure/service/logger"
)

// PurgeUseCase executes fired deletion tasks on the consumer side. A set
// cancellation flag makes the whole task a no-op; otherwise the inactive
// durable row and the staged record are removed. Both removals are
// idempotent, so the transport may redeliver the job safely.
type PurgeUseCase struct {
	flags    outbound.CancellationFlags
	accounts outbound.AccountRepository
	staging  outbound.StagingStore
	logger   logger.Logger
}

func NewPurgeUseCase(
	flags outbound.CancellationFlags,
	accounts outbound.AccountRepository,
	staging outbound.StagingStore,
	log logger.Logger,
) inbound.PurgeUseCase {
	return &PurgeUseCase{
		flags:    flags,
		accounts: accounts,
		staging:  staging,
		logger:   log,
	}
}

func (uc *PurgeUseCase) Execute(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return apperror.Validation("subject id is required")
	}

	cancelled, err := uc.flags.IsCancelled(ctx, subjectID)
	if err != nil {
		return uc.taskErr("cancellation check", err)
	}
	if cancelled {
		uc.logger.Debug(ctx, "purge cancelled, skipping", map[string]interface{}{
			"subject_id": subjectID,
		})
		return nil
	}

	deleted, err := uc.accounts.DeleteInactive(ctx, subjectID)
	if err != nil {
		return uc.taskErr("account purge", err)
	}

	discarded, err := uc.staging.Discard(ctx, subjectID)
	if err != nil {
		return uc.taskErr("staging discard", err)
	}

	uc.logger.Info(ctx, "pending user purged", map[string]interface{}{
		"subject_id":        subjectID,
		"account_deleted":   deleted,
		"staging_discarded": discarded,
	})
	return nil
}

func (uc *PurgeUseCase) taskErr(operation string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.StoreUnavailable(operation, err)
}
