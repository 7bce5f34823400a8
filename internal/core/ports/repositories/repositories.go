// Package repositories defines the persistence interfaces consumed by the
// core services. Implementations live under internal/repositories.
package repositories

import (
	"context"
	"time"

	"github.com/nucash/nucash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepositoryFacade is the single source of truth for current balances
// and activation state.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error)
	FindAccountBySchoolID(ctx context.Context, schoolID string) (*domain.Account, error)
	// UpdateBalance persists an absolute balance computed by the caller from
	// the account record it already holds in memory. There is no lock or
	// version token between the caller's read and this write.
	UpdateBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, now time.Time) error
	ActivateAccount(ctx context.Context, accountID string, pinHash string, now time.Time) error
	UpdateRFID(ctx context.Context, accountID string, newRFID string, now time.Time) error
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// TransactionRepositoryFacade is the append-only ledger store. Rows are
// immutable apart from the COMPLETED -> REFUNDED status flip.
type TransactionRepositoryFacade interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// MarkRefunded flips status to REFUNDED for a COMPLETED row. Returns
	// apperrors.ErrNotFound when no COMPLETED row with that ID exists.
	MarkRefunded(ctx context.Context, transactionID string, now time.Time) error
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
	// FindAllByAccountID returns every ledger entry for an account in
	// creation order, for balance replay.
	FindAllByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// FareRepositoryFacade supplies the fare settings row and route fare lookups.
type FareRepositoryFacade interface {
	GetSettings(ctx context.Context) (*domain.FareSettings, error)
	SaveSettings(ctx context.Context, settings domain.FareSettings) error
	FindRouteByID(ctx context.Context, routeID string) (*domain.ShuttleRoute, error)
	UpsertRoute(ctx context.Context, route domain.ShuttleRoute) error
}
