package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, school_id, rfid, name, email, role, pin_hash, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var balance decimal.Decimal
	err := row.Scan(
		&acc.AccountID,
		&acc.SchoolID,
		&acc.RFID,
		&acc.Name,
		&acc.Email,
		&acc.Role,
		&acc.PINHash,
		&balance,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}
	acc.Balance = balance
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.SchoolID,
		account.RFID,
		account.Name,
		account.Email,
		account.Role,
		account.PINHash,
		account.Balance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: account with this school ID or RFID already exists", apperrors.ErrDuplicate)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByRFID retrieves an account by its current card tag.
func (r *PgxAccountRepository) FindAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE rfid = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, rfid))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by RFID: %w", err)
	}
	return acc, nil
}

// FindAccountBySchoolID retrieves an account by the holder's school/merchant identifier.
func (r *PgxAccountRepository) FindAccountBySchoolID(ctx context.Context, schoolID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE school_id = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, schoolID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by school ID %s: %w", schoolID, err)
	}
	return acc, nil
}

// UpdateBalance writes the absolute balance computed by the caller.
// The caller read the account, computed the new balance in memory and calls
// this with no re-fetch in between. There is no row lock and no version
// column, so a concurrent writer that read the same prior balance overwrites
// this update.
func (r *PgxAccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, accountID, newBalance, now)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ActivateAccount stores the PIN hash and flips the account active.
func (r *PgxAccountRepository) ActivateAccount(ctx context.Context, accountID string, pinHash string, now time.Time) error {
	query := `
		UPDATE accounts
		SET pin_hash = $2, is_active = TRUE, last_updated_at = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, accountID, pinHash, now)
	if err != nil {
		return fmt.Errorf("failed to activate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRFID re-points the card association to a new tag. The account and its
// transaction history survive the transfer.
func (r *PgxAccountRepository) UpdateRFID(ctx context.Context, accountID string, newRFID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET rfid = $2, last_updated_at = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, accountID, newRFID, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: RFID already associated with another account", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update RFID for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListAccounts retrieves a paginated list of accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY name
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	return accounts, nil
}
