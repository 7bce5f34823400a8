// Package services defines the service facade interfaces consumed by the
// HTTP handlers and by other services.
package services

import (
	"context"

	"github.com/nucash/nucash_backend/internal/core/domain"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade manages account lifecycle: registration, activation,
// card transfer and lookups.
type AccountSvcFacade interface {
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, creatorUserID string) (*domain.Account, error)
	ActivateAccount(ctx context.Context, accountID string, pin string, userID string) (*domain.Account, error)
	TransferCard(ctx context.Context, accountID string, newRFID string, userID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// LedgerEntry describes one balance mutation for the ledger writer. When
// TransactionID is empty the writer generates one from Prefix.
type LedgerEntry struct {
	TransactionID string
	Prefix        string
	AccountID     string
	Type          domain.TransactionType
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Context       domain.TransactionContext
}

// LedgerSvcFacade produces the auditable, append-only record for every
// balance mutation and serves ledger reads.
type LedgerSvcFacade interface {
	GenerateTransactionID(prefix string) string
	// RefundTransactionID derives a refund identifier from the original by
	// substituting the distinguishing prefix.
	RefundTransactionID(originalID string) string
	Record(ctx context.Context, entry LedgerEntry) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	VerifyReplay(ctx context.Context, accountID string) (*dto.ReplayCheckResponse, error)
}

// PaymentSvcFacade orchestrates the money-moving operations.
type PaymentSvcFacade interface {
	Pay(ctx context.Context, req dto.PayRequest) (*dto.PayReceipt, error)
	Refund(ctx context.Context, req dto.RefundRequest, userID string) (*dto.RefundResponse, error)
	Sync(ctx context.Context, req dto.SyncRequest) (*dto.SyncResponse, error)
	CashIn(ctx context.Context, req dto.CashInRequest, userID string) (*dto.CashInReceipt, error)
}

// FareSvcFacade exposes fare administration.
type FareSvcFacade interface {
	GetSettings(ctx context.Context) (*domain.FareSettings, error)
	UpdateSettings(ctx context.Context, req dto.UpdateFareSettingsRequest, userID string) (*domain.FareSettings, error)
	GetRoute(ctx context.Context, routeID string) (*domain.ShuttleRoute, error)
	UpsertRoute(ctx context.Context, routeID string, req dto.UpsertRouteRequest, userID string) (*domain.ShuttleRoute, error)
}

// ServiceContainer aggregates the service facades handed to route registration.
type ServiceContainer struct {
	Account AccountSvcFacade
	Ledger  LedgerSvcFacade
	Payment PaymentSvcFacade
	Fare    FareSvcFacade
}
