package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// PaymentConfig carries the deployment-level fallbacks used when no fare
// settings row exists yet.
type PaymentConfig struct {
	DefaultFare          decimal.Decimal
	DefaultNegativeLimit decimal.Decimal
}

// paymentService orchestrates the money-moving operations: fare debits,
// batch refunds, offline replay and treasury credits.
//
// Every mutation is two separate statements: the balance UPDATE first, then
// the ledger INSERT. There is no surrounding database transaction, so a crash
// between the two leaves a balance change with no ledger row.
type paymentService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	fareRepo    portsrepo.FareRepositoryFacade
	ledger      portssvc.LedgerSvcFacade
	notifier    portssvc.Notifier
	cfg         PaymentConfig
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	fareRepo portsrepo.FareRepositoryFacade,
	ledger portssvc.LedgerSvcFacade,
	notifier portssvc.Notifier,
	cfg PaymentConfig,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		fareRepo:    fareRepo,
		ledger:      ledger,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// Ensure paymentService implements the portssvc.PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// resolveFare picks the fare for an online debit. Precedence: explicit
// positive override from the device, then the route's fare, then the global
// configured fare, then the deployment default.
func (s *paymentService) resolveFare(ctx context.Context, explicit *decimal.Decimal, routeID string) decimal.Decimal {
	if explicit != nil && explicit.IsPositive() {
		return *explicit
	}
	if routeID != "" {
		route, err := s.fareRepo.FindRouteByID(ctx, routeID)
		if err == nil && route.Fare.IsPositive() {
			return route.Fare
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to resolve route fare", slog.String("route_id", routeID), slog.String("error", err.Error()))
		}
	}
	settings, err := s.fareRepo.GetSettings(ctx)
	if err == nil && settings.CurrentFare.IsPositive() {
		return settings.CurrentFare
	}
	return s.cfg.DefaultFare
}

// negativeLimit returns the configured overdraft floor, falling back to the
// deployment default when no settings row exists.
func (s *paymentService) negativeLimit(ctx context.Context) decimal.Decimal {
	settings, err := s.fareRepo.GetSettings(ctx)
	if err == nil {
		return settings.NegativeLimit
	}
	return s.cfg.DefaultNegativeLimit
}

// Pay debits one fare from the card identified by RFID.
func (s *paymentService) Pay(ctx context.Context, req dto.PayRequest) (*dto.PayReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fare := s.resolveFare(ctx, req.FareAmount, req.RouteID)

	account, err := s.accountRepo.FindAccountByRFID(ctx, req.RFID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for card", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is not activated", apperrors.ErrForbidden, account.AccountID)
	}

	previousBalance := account.Balance
	newBalance := previousBalance.Sub(fare)

	limit := s.negativeLimit(ctx)
	if newBalance.LessThan(limit) {
		return nil, &apperrors.InsufficientBalanceError{
			Balance:       previousBalance,
			Fare:          fare,
			NegativeLimit: limit,
		}
	}

	now := time.Now().UTC()
	if err := s.accountRepo.UpdateBalance(ctx, account.AccountID, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to debit account %s: %w", account.AccountID, err)
	}

	txn, err := s.ledger.Record(ctx, portssvc.LedgerEntry{
		Prefix:       DebitPrefix,
		AccountID:    account.AccountID,
		Type:         domain.Debit,
		Amount:       fare,
		BalanceAfter: newBalance,
		Context: domain.TransactionContext{
			ShuttleID: req.ShuttleID,
			DriverID:  req.DriverID,
			RouteID:   req.RouteID,
			TripID:    req.TripID,
		},
	})
	if err != nil {
		// The balance already moved; surface the error so the gap is at least visible.
		return nil, fmt.Errorf("balance updated but ledger write failed: %w", err)
	}

	receipt := &dto.PayReceipt{
		Name:            account.Name,
		RFID:            account.RFID,
		FareAmount:      fare,
		PreviousBalance: previousBalance,
		NewBalance:      newBalance,
		TransactionID:   txn.TransactionID,
		Timestamp:       txn.CreatedAt,
	}

	logger.Info("Fare payment completed",
		slog.String("account_id", account.AccountID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("fare", fare.String()))

	s.notifyAsync(ctx, portssvc.Receipt{
		Kind:            portssvc.ReceiptPayment,
		To:              account.Email,
		Name:            account.Name,
		Amount:          fare,
		PreviousBalance: previousBalance,
		NewBalance:      newBalance,
		TransactionID:   txn.TransactionID,
		Timestamp:       txn.CreatedAt,
	})

	return receipt, nil
}

// Refund reverses previously completed fare debits. Each item is processed
// independently; one failure never rolls back or aborts the others.
func (s *paymentService) Refund(ctx context.Context, req dto.RefundRequest, userID string) (*dto.RefundResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	resp := &dto.RefundResponse{
		Results: make([]dto.RefundItemResult, 0, len(req.TransactionIDs)),
		Errors:  []string{},
	}

	for _, transactionID := range req.TransactionIDs {
		result := s.refundOne(ctx, transactionID, req.Reason)
		resp.Results = append(resp.Results, result)
		if result.Error != "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %s", transactionID, result.Error))
		} else {
			resp.Refunded++
		}
	}

	logger.Info("Refund batch processed",
		slog.String("user_id", userID),
		slog.Int("refunded", resp.Refunded),
		slog.Int("failed", resp.Failed))
	return resp, nil
}

func (s *paymentService) refundOne(ctx context.Context, transactionID string, reason string) dto.RefundItemResult {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := dto.RefundItemResult{TransactionID: transactionID}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			result.Error = "transaction not found"
		} else {
			result.Error = err.Error()
		}
		return result
	}

	if txn.Status == domain.Refunded {
		result.Error = apperrors.ErrAlreadyRefunded.Error()
		return result
	}

	account, err := s.accountRepo.FindAccountByID(ctx, txn.AccountID)
	if err != nil {
		result.Error = fmt.Sprintf("account %s not found", txn.AccountID)
		return result
	}

	previousBalance := account.Balance
	newBalance := previousBalance.Add(txn.Amount)
	now := time.Now().UTC()

	if err := s.accountRepo.UpdateBalance(ctx, account.AccountID, newBalance, now); err != nil {
		result.Error = fmt.Sprintf("failed to credit account: %v", err)
		return result
	}

	// Flip the original one-way; its row otherwise stays untouched. The credit
	// below is a fresh entry with its own snapshot.
	if err := s.txnRepo.MarkRefunded(ctx, transactionID, now); err != nil {
		logger.Error("Failed to mark transaction refunded after credit",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()))
		result.Error = fmt.Sprintf("failed to mark refunded: %v", err)
		return result
	}

	refundTxn, err := s.ledger.Record(ctx, portssvc.LedgerEntry{
		TransactionID: s.ledger.RefundTransactionID(transactionID),
		AccountID:     account.AccountID,
		Type:          domain.Credit,
		Amount:        txn.Amount,
		BalanceAfter:  newBalance,
		Context:       domain.TransactionContext{Reason: reason},
	})
	if err != nil {
		result.Error = fmt.Sprintf("credited but ledger write failed: %v", err)
		return result
	}

	result.RefundTransactionID = refundTxn.TransactionID
	result.NewBalance = &newBalance

	s.notifyAsync(ctx, portssvc.Receipt{
		Kind:            portssvc.ReceiptRefund,
		To:              account.Email,
		Name:            account.Name,
		Amount:          txn.Amount,
		PreviousBalance: previousBalance,
		NewBalance:      newBalance,
		TransactionID:   refundTxn.TransactionID,
		Timestamp:       refundTxn.CreatedAt,
	})

	return result
}

// Sync replays debit attempts a device collected while offline, in array
// order. Entries are applied with the entry's fare, or the deployment default
// when absent; there is no floor check, no activation check and no duplicate
// detection on this path, so resubmitting a batch debits again.
func (s *paymentService) Sync(ctx context.Context, req dto.SyncRequest) (*dto.SyncResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	resp := &dto.SyncResponse{
		Rejected: []dto.SyncRejection{},
		Details:  []dto.SyncItemDetail{},
	}

	for i, entry := range req.Transactions {
		account, err := s.accountRepo.FindAccountByRFID(ctx, entry.RFID)
		if err != nil {
			reason := "account not found"
			if !errors.Is(err, apperrors.ErrNotFound) {
				reason = err.Error()
			}
			resp.Rejected = append(resp.Rejected, dto.SyncRejection{Index: i, RFID: entry.RFID, Error: reason})
			continue
		}

		fare := s.cfg.DefaultFare
		if entry.FareAmount != nil && entry.FareAmount.IsPositive() {
			fare = *entry.FareAmount
		}

		newBalance := account.Balance.Sub(fare)
		now := time.Now().UTC()

		if err := s.accountRepo.UpdateBalance(ctx, account.AccountID, newBalance, now); err != nil {
			resp.Rejected = append(resp.Rejected, dto.SyncRejection{Index: i, RFID: entry.RFID, Error: err.Error()})
			continue
		}

		txn, err := s.ledger.Record(ctx, portssvc.LedgerEntry{
			Prefix:       DebitPrefix,
			AccountID:    account.AccountID,
			Type:         domain.Debit,
			Amount:       fare,
			BalanceAfter: newBalance,
			Context: domain.TransactionContext{
				ShuttleID: entry.ShuttleID,
				DriverID:  entry.DriverID,
				RouteID:   entry.RouteID,
				DeviceID:  req.DeviceID,
			},
		})
		if err != nil {
			resp.Rejected = append(resp.Rejected, dto.SyncRejection{Index: i, RFID: entry.RFID, Error: err.Error()})
			continue
		}

		resp.Processed++
		resp.Details = append(resp.Details, dto.SyncItemDetail{
			Index:         i,
			RFID:          entry.RFID,
			TransactionID: txn.TransactionID,
			FareAmount:    fare,
			NewBalance:    newBalance,
		})
	}

	logger.Info("Offline batch synced",
		slog.String("device_id", req.DeviceID),
		slog.Int("processed", resp.Processed),
		slog.Int("rejected", len(resp.Rejected)))
	return resp, nil
}

// CashIn credits an account at the treasury counter. Activation is not
// required: students load their cards before first use.
func (s *paymentService) CashIn(ctx context.Context, req dto.CashInRequest, userID string) (*dto.CashInReceipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: cash-in amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountBySchoolID(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for school ID %s", apperrors.ErrNotFound, req.SchoolID)
		}
		return nil, err
	}

	previousBalance := account.Balance
	newBalance := previousBalance.Add(req.Amount)
	now := time.Now().UTC()

	if err := s.accountRepo.UpdateBalance(ctx, account.AccountID, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to credit account %s: %w", account.AccountID, err)
	}

	txn, err := s.ledger.Record(ctx, portssvc.LedgerEntry{
		Prefix:       CashInPrefix,
		AccountID:    account.AccountID,
		Type:         domain.Credit,
		Amount:       req.Amount,
		BalanceAfter: newBalance,
		Context:      domain.TransactionContext{Reason: "treasury cash-in"},
	})
	if err != nil {
		return nil, fmt.Errorf("balance updated but ledger write failed: %w", err)
	}

	logger.Info("Cash-in completed",
		slog.String("account_id", account.AccountID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", req.Amount.String()),
		slog.String("user_id", userID))

	s.notifyAsync(ctx, portssvc.Receipt{
		Kind:            portssvc.ReceiptCashIn,
		To:              account.Email,
		Name:            account.Name,
		Amount:          req.Amount,
		PreviousBalance: previousBalance,
		NewBalance:      newBalance,
		TransactionID:   txn.TransactionID,
		Timestamp:       txn.CreatedAt,
	})

	return &dto.CashInReceipt{
		Name:            account.Name,
		SchoolID:        account.SchoolID,
		Amount:          req.Amount,
		PreviousBalance: previousBalance,
		NewBalance:      newBalance,
		TransactionID:   txn.TransactionID,
		Timestamp:       txn.CreatedAt,
	}, nil
}

// notifyAsync sends a receipt without blocking or failing the money path.
func (s *paymentService) notifyAsync(ctx context.Context, receipt portssvc.Receipt) {
	if s.notifier == nil || receipt.To == "" {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	sendCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.SendReceipt(sendCtx, receipt); err != nil {
			logger.Warn("Failed to send receipt",
				slog.String("transaction_id", receipt.TransactionID),
				slog.String("error", err.Error()))
		}
	}()
}
