package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
	"github.com/nucash/nucash_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// accountService manages the account lifecycle: registration, PIN
// activation, card transfer and lookups.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// RegisterAccount creates a wallet account with a zero balance. The account
// stays inactive until the holder completes the PIN flow; cash-in works
// before activation so cards can be loaded ahead of first use.
func (s *accountService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	account := domain.Account{
		AccountID: uuid.NewString(),
		SchoolID:  req.SchoolID,
		RFID:      req.RFID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      domain.AccountRole(req.Role),
		Balance:   decimal.Zero,
		IsActive:  false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("school_id", account.SchoolID),
		slog.String("role", req.Role))
	return &account, nil
}

// ActivateAccount stores the holder's chosen PIN and flips the account
// active. Debits are rejected until this completes.
func (s *accountService) ActivateAccount(ctx context.Context, accountID string, pin string, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsActive {
		return nil, fmt.Errorf("%w: account is already active", apperrors.ErrValidation)
	}

	pinHash, err := utils.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.ActivateAccount(ctx, accountID, pinHash, now); err != nil {
		return nil, err
	}

	account.PINHash = pinHash
	account.IsActive = true
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	logger.Info("Account activated", slog.String("account_id", accountID))
	return account, nil
}

// TransferCard re-points the account's RFID association to a replacement
// tag. The account, its balance and its history survive the transfer.
func (s *accountService) TransferCard(ctx context.Context, accountID string, newRFID string, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.RFID == newRFID {
		return nil, fmt.Errorf("%w: new RFID matches the current card", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.UpdateRFID(ctx, accountID, newRFID, now); err != nil {
		return nil, err
	}

	oldRFID := account.RFID
	account.RFID = newRFID
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	logger.Info("Card transferred",
		slog.String("account_id", accountID),
		slog.String("old_rfid", oldRFID))
	return account, nil
}

// GetAccountByID retrieves an account by its internal identifier.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByRFID retrieves an account by its current card tag.
func (s *accountService) GetAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByRFID(ctx, rfid)
}

// ListAccounts retrieves a page of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}
