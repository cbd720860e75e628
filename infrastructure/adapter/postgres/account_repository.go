package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/velora/auth-service/application/port/outbound"
	"github.com/velora/auth-service/domain/entity"
)

const uniqueViolation = "23505"

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) outbound.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Insert(ctx context.Context, account *entity.Account) (*entity.Account, error) {
	query := `
		INSERT INTO accounts (id, username, email, phone, firstname, lastname, hashed_password, is_active, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, username, email, is_active, role
	`

	var phone sql.NullString
	if account.Phone != "" {
		phone = sql.NullString{String: account.Phone, Valid: true}
	}

	saved := *account
	err := r.db.QueryRowContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		phone,
		account.Firstname,
		account.Lastname,
		account.HashedPassword,
		account.IsActive,
		account.Role,
	).Scan(
		&saved.ID,
		&saved.Username,
		&saved.Email,
		&saved.IsActive,
		&saved.Role,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, outbound.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return &saved, nil
}

func (r *accountRepository) FindByLogin(ctx context.Context, q outbound.LoginQuery) (*entity.Account, error) {
	query := `
		SELECT id, username, email, hashed_password, is_active, role
		FROM accounts
		WHERE username = $1
	`
	arg := q.Username
	if q.Username == "" {
		if q.Phone == "" {
			return nil, outbound.ErrAccountNotFound
		}
		query = `
			SELECT id, username, email, hashed_password, is_active, role
			FROM accounts
			WHERE phone = $1
		`
		arg = q.Phone
	}

	var account entity.Account
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.HashedPassword,
		&account.IsActive,
		&account.Role,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}

func (r *accountRepository) DeleteInactive(ctx context.Context, id string) (bool, error) {
	// The is_active guard keeps a late-firing purge away from accounts that
	// were confirmed after the job was emitted.
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND is_active = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("failed to purge account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
