package services_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/core/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var txnIDPattern = regexp.MustCompile(`^[A-Z]{3}-\d{14}-[0-9a-f]{6}$`)

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	service         portssvc.LedgerSvcFacade
	accountID       string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewLedgerService(suite.mockAccountRepo, suite.mockTxnRepo)
	suite.accountID = uuid.NewString()
}

// --- Transaction IDs ---

func (suite *LedgerServiceTestSuite) TestGenerateTransactionID_Format() {
	id := suite.service.GenerateTransactionID(services.DebitPrefix)
	suite.Regexp(txnIDPattern, id)
	suite.True(strings.HasPrefix(id, "NUC-"))
}

func (suite *LedgerServiceTestSuite) TestGenerateTransactionID_DefaultsToDebitPrefix() {
	id := suite.service.GenerateTransactionID("")
	suite.True(strings.HasPrefix(id, "NUC-"))
}

func (suite *LedgerServiceTestSuite) TestGenerateTransactionID_Unique() {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := suite.service.GenerateTransactionID(services.CashInPrefix)
		suite.False(seen[id], "generated a duplicate transaction ID: %s", id)
		seen[id] = true
	}
}

func (suite *LedgerServiceTestSuite) TestRefundTransactionID_SubstitutesPrefix() {
	refundID := suite.service.RefundTransactionID("NUC-20250101120000-a1b2c3")
	suite.Equal("RFD-20250101120000-a1b2c3", refundID)
}

func (suite *LedgerServiceTestSuite) TestRefundTransactionID_MalformedOriginalGetsFreshID() {
	refundID := suite.service.RefundTransactionID("garbage")
	suite.True(strings.HasPrefix(refundID, "RFD-"))
	suite.Regexp(txnIDPattern, refundID)
}

// --- Record ---

func (suite *LedgerServiceTestSuite) TestRecord_GeneratesIDFromPrefixWhenEmpty() {
	ctx := context.Background()

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return strings.HasPrefix(txn.TransactionID, "CSH-") &&
			txn.Status == domain.Completed
	})).Return(nil).Once()

	txn, err := suite.service.Record(ctx, portssvc.LedgerEntry{
		Prefix:       services.CashInPrefix,
		AccountID:    suite.accountID,
		Type:         domain.Credit,
		Amount:       decimal.NewFromInt(50),
		BalanceAfter: decimal.NewFromInt(50),
	})

	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(txn.TransactionID, "CSH-"))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecord_KeepsCallerProvidedID() {
	ctx := context.Background()

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == "RFD-20250101120000-a1b2c3"
	})).Return(nil).Once()

	txn, err := suite.service.Record(ctx, portssvc.LedgerEntry{
		TransactionID: "RFD-20250101120000-a1b2c3",
		AccountID:     suite.accountID,
		Type:          domain.Credit,
		Amount:        decimal.NewFromInt(15),
		BalanceAfter:  decimal.NewFromInt(100),
	})

	suite.Require().NoError(err)
	suite.Equal("RFD-20250101120000-a1b2c3", txn.TransactionID)
}

func (suite *LedgerServiceTestSuite) TestRecord_RejectsNonPositiveAmount() {
	ctx := context.Background()

	txn, err := suite.service.Record(ctx, portssvc.LedgerEntry{
		Prefix:    services.DebitPrefix,
		AccountID: suite.accountID,
		Type:      domain.Debit,
		Amount:    decimal.Zero,
	})

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

// --- Reads ---

func (suite *LedgerServiceTestSuite) TestListTransactionsByAccount_DefaultsLimit() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListTransactionsByAccountID", ctx, suite.accountID, 20, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactionsByAccount(ctx, suite.accountID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- VerifyReplay ---

func (suite *LedgerServiceTestSuite) TestVerifyReplay_Consistent() {
	ctx := context.Background()
	account := domain.Account{AccountID: suite.accountID, Balance: decimal.NewFromInt(85)}
	txns := []domain.Transaction{
		{TransactionType: domain.Credit, Amount: decimal.NewFromInt(100), Status: domain.Completed},
		{TransactionType: domain.Debit, Amount: decimal.NewFromInt(15), Status: domain.Completed},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).Return(&account, nil).Once()
	suite.mockTxnRepo.On("FindAllByAccountID", ctx, suite.accountID).Return(txns, nil).Once()

	resp, err := suite.service.VerifyReplay(ctx, suite.accountID)

	suite.Require().NoError(err)
	suite.True(resp.Consistent)
	suite.True(resp.ReplayedBalance.Equal(decimal.NewFromInt(85)))
	suite.Equal(2, resp.TransactionCount)
}

func (suite *LedgerServiceTestSuite) TestVerifyReplay_IncludesRefundedEntries() {
	ctx := context.Background()
	// A refunded debit still moved the balance; its effect is undone by the
	// refund credit, not by excluding it from the replay.
	account := domain.Account{AccountID: suite.accountID, Balance: decimal.NewFromInt(100)}
	txns := []domain.Transaction{
		{TransactionType: domain.Credit, Amount: decimal.NewFromInt(100), Status: domain.Completed},
		{TransactionType: domain.Debit, Amount: decimal.NewFromInt(15), Status: domain.Refunded},
		{TransactionType: domain.Credit, Amount: decimal.NewFromInt(15), Status: domain.Completed},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).Return(&account, nil).Once()
	suite.mockTxnRepo.On("FindAllByAccountID", ctx, suite.accountID).Return(txns, nil).Once()

	resp, err := suite.service.VerifyReplay(ctx, suite.accountID)

	suite.Require().NoError(err)
	suite.True(resp.Consistent)
	suite.Equal(3, resp.TransactionCount)
}

func (suite *LedgerServiceTestSuite) TestVerifyReplay_DetectsMismatch() {
	ctx := context.Background()
	account := domain.Account{AccountID: suite.accountID, Balance: decimal.NewFromInt(100)}
	txns := []domain.Transaction{
		{TransactionType: domain.Credit, Amount: decimal.NewFromInt(50), Status: domain.Completed},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).Return(&account, nil).Once()
	suite.mockTxnRepo.On("FindAllByAccountID", ctx, suite.accountID).Return(txns, nil).Once()

	resp, err := suite.service.VerifyReplay(ctx, suite.accountID)

	suite.Require().NoError(err)
	suite.False(resp.Consistent)
	suite.True(resp.StoredBalance.Equal(decimal.NewFromInt(100)))
	suite.True(resp.ReplayedBalance.Equal(decimal.NewFromInt(50)))
}

func (suite *LedgerServiceTestSuite) TestVerifyReplay_AccountNotFound() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.accountID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.VerifyReplay(ctx, suite.accountID)

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
