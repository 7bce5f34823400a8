package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
	"github.com/nucash/nucash_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// Transaction ID prefixes. Fare debits, treasury credits and refunds are
// visually distinguishable by prefix; a refund ID is derived from the
// original by substituting its prefix.
const (
	DebitPrefix  = "NUC"
	CashInPrefix = "CSH"
	RefundPrefix = "RFD"
)

const txnIDTimeFormat = "20060102150405"

// ledgerService is the append-only writer and reader for the transaction
// ledger. Every balance mutation gets exactly one row, with the
// post-mutation balance captured as a snapshot at write time.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GenerateTransactionID produces a fresh unique identifier of the form
// PREFIX-YYYYMMDDHHMMSS-xxxxxx.
func (s *ledgerService) GenerateTransactionID(prefix string) string {
	if prefix == "" {
		prefix = DebitPrefix
	}
	suffix, err := utils.GenerateSecureRandomString(3)
	if err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to a
		// time-derived suffix rather than panic in the money path.
		suffix = fmt.Sprintf("%06x", time.Now().UnixNano()&0xffffff)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format(txnIDTimeFormat), suffix)
}

// RefundTransactionID derives the refund identifier from the original by
// substituting the distinguishing prefix, keeping the timestamp and random
// suffix of the original so the pair is recognizable in exports.
func (s *ledgerService) RefundTransactionID(originalID string) string {
	parts := strings.SplitN(originalID, "-", 2)
	if len(parts) == 2 && parts[1] != "" {
		return RefundPrefix + "-" + parts[1]
	}
	return s.GenerateTransactionID(RefundPrefix)
}

// Record persists exactly one immutable ledger row. It must be called once
// per mutation and only after the balance write succeeded; BalanceAfter is
// stored as-is and never recomputed later.
func (s *ledgerService) Record(ctx context.Context, entry portssvc.LedgerEntry) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if entry.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: ledger amount must be positive", apperrors.ErrValidation)
	}

	transactionID := entry.TransactionID
	if transactionID == "" {
		transactionID = s.GenerateTransactionID(entry.Prefix)
	}

	txn := domain.Transaction{
		TransactionID:   transactionID,
		AccountID:       entry.AccountID,
		TransactionType: entry.Type,
		Amount:          entry.Amount,
		Balance:         entry.BalanceAfter,
		Status:          domain.Completed,
		Context:         entry.Context,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to persist ledger entry",
			slog.String("transaction_id", transactionID),
			slog.String("account_id", entry.AccountID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record transaction %s: %w", transactionID, err)
	}

	logger.Info("Ledger entry recorded",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", entry.AccountID),
		slog.String("type", string(entry.Type)),
		slog.String("amount", entry.Amount.String()),
		slog.String("balance_after", entry.BalanceAfter.String()))
	return &txn, nil
}

// GetTransactionByID retrieves a ledger entry by its external identifier.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactionsByAccount retrieves a page of ledger entries for an account.
func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}

	transactions, nextToken, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions by account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}

	logger.Debug("Transactions listed for account", slog.String("account_id", accountID), slog.Int("count", len(transactions)))
	return resp, nil
}

// VerifyReplay reconstructs the account balance by summing the signed
// amounts of every ledger entry in creation order and compares the result
// against the stored balance.
//
// Refunded entries are included: the refund credits back via its own entry
// and flips the original's status as an audit marker, so the original's
// effect on the balance is still real. Accounts open at zero, so the replay
// starts from zero.
func (s *ledgerService) VerifyReplay(ctx context.Context, accountID string) (*dto.ReplayCheckResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txnRepo.FindAllByAccountID(ctx, accountID)
	if err != nil {
		logger.Error("Failed to fetch transactions for replay", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions for replay: %w", err)
	}

	replayed := decimal.Zero
	for _, txn := range transactions {
		replayed = replayed.Add(txn.SignedAmount())
	}

	resp := &dto.ReplayCheckResponse{
		AccountID:        accountID,
		StoredBalance:    account.Balance,
		ReplayedBalance:  replayed,
		Consistent:       replayed.Equal(account.Balance),
		TransactionCount: len(transactions),
	}

	if !resp.Consistent {
		logger.Warn("Ledger replay mismatch",
			slog.String("account_id", accountID),
			slog.String("stored", account.Balance.String()),
			slog.String("replayed", replayed.String()))
	}
	return resp, nil
}
