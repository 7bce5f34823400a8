package services_test

import (
	"context"
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

// --- Test Suite Setup ---
type PaymentServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockFareRepo    *MockFareRepository
	mockNotifier    *MockNotifier
	service         portssvc.PaymentSvcFacade
	account         domain.Account
	settings        domain.FareSettings
	userID          string
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockFareRepo = new(MockFareRepository)
	suite.mockNotifier = new(MockNotifier)

	ledger := services.NewLedgerService(suite.mockAccountRepo, suite.mockTxnRepo)
	suite.service = services.NewPaymentService(
		suite.mockAccountRepo,
		suite.mockTxnRepo,
		suite.mockFareRepo,
		ledger,
		suite.mockNotifier,
		services.PaymentConfig{
			DefaultFare:          decimal.NewFromInt(15),
			DefaultNegativeLimit: decimal.NewFromInt(-14),
		},
	)

	suite.userID = uuid.NewString()

	// Email intentionally empty so receipt delivery is skipped in tests.
	suite.account = domain.Account{
		AccountID: uuid.NewString(),
		SchoolID:  "2021-00123",
		RFID:      "a1b2c3d4",
		Name:      "Test Student",
		Role:      domain.RoleStudent,
		Balance:   decimal.NewFromInt(100),
		IsActive:  true,
	}
	suite.settings = domain.FareSettings{
		CurrentFare:   decimal.NewFromInt(10),
		NegativeLimit: decimal.NewFromInt(-14),
	}
}

// --- Pay ---

func (suite *PaymentServiceTestSuite) TestPay_ExplicitFareOverridesEverything() {
	ctx := context.Background()
	explicit := decimal.NewFromInt(20)
	req := dto.PayRequest{RFID: suite.account.RFID, FareAmount: &explicit, RouteID: "R1"}

	suite.mockFareRepo.On("GetSettings", ctx).Return(&suite.settings, nil)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(80), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Require().NoError(err)
	suite.True(receipt.FareAmount.Equal(explicit))
	suite.True(receipt.PreviousBalance.Equal(decimal.NewFromInt(100)))
	suite.True(receipt.NewBalance.Equal(decimal.NewFromInt(80)))
	// Route fare must not be consulted when the device sent an explicit fare.
	suite.mockFareRepo.AssertNotCalled(suite.T(), "FindRouteByID", ctx, "R1")
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPay_RouteFareBeatsGlobalFare() {
	ctx := context.Background()
	req := dto.PayRequest{RFID: suite.account.RFID, RouteID: "R1"}
	route := domain.ShuttleRoute{RouteID: "R1", Name: "Main Gate Loop", Fare: decimal.NewFromInt(12)}

	suite.mockFareRepo.On("FindRouteByID", ctx, "R1").Return(&route, nil).Once()
	suite.mockFareRepo.On("GetSettings", ctx).Return(&suite.settings, nil)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(88), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Require().NoError(err)
	suite.True(receipt.FareAmount.Equal(route.Fare))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPay_GlobalFareWhenNoRoute() {
	ctx := context.Background()
	req := dto.PayRequest{RFID: suite.account.RFID}

	suite.mockFareRepo.On("GetSettings", ctx).Return(&suite.settings, nil)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(90), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Require().NoError(err)
	suite.True(receipt.FareAmount.Equal(suite.settings.CurrentFare))
}

func (suite *PaymentServiceTestSuite) TestPay_DefaultFareWhenNoSettingsRow() {
	ctx := context.Background()
	req := dto.PayRequest{RFID: suite.account.RFID}

	suite.mockFareRepo.On("GetSettings", ctx).Return(nil, apperrors.ErrNotFound)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(85), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Require().NoError(err)
	suite.True(receipt.FareAmount.Equal(decimal.NewFromInt(15)))
}

func (suite *PaymentServiceTestSuite) TestPay_UnknownCard() {
	ctx := context.Background()
	req := dto.PayRequest{RFID: "deadbeef"}

	suite.mockFareRepo.On("GetSettings", ctx).Return(&suite.settings, nil)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, "deadbeef").Return(nil, apperrors.ErrNotFound).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestPay_InactiveAccountRejected() {
	ctx := context.Background()
	suite.account.IsActive = false
	req := dto.PayRequest{RFID: suite.account.RFID}

	suite.mockFareRepo.On("GetSettings", ctx).Return(&suite.settings, nil)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestPay_InsufficientBalance() {
	ctx := context.Background()
	suite.account.Balance = decimal.Zero
	req := dto.PayRequest{RFID: suite.account.RFID}

	suite.mockFareRepo.On("GetSettings", ctx).Return(nil, apperrors.ErrNotFound)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Nil(receipt)
	insuffErr, ok := apperrors.AsInsufficientBalance(err)
	suite.Require().True(ok)
	suite.True(insuffErr.Balance.Equal(decimal.Zero))
	suite.True(insuffErr.Fare.Equal(decimal.NewFromInt(15)))
	suite.True(insuffErr.NegativeLimit.Equal(decimal.NewFromInt(-14)))
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestPay_OverdraftAllowedDownToFloor() {
	ctx := context.Background()
	suite.account.Balance = decimal.NewFromInt(1)
	req := dto.PayRequest{RFID: suite.account.RFID}

	// Balance 1 minus fare 15 lands exactly on the -14 floor.
	suite.mockFareRepo.On("GetSettings", ctx).Return(nil, apperrors.ErrNotFound)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(-14), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	receipt, err := suite.service.Pay(ctx, req)

	suite.Require().NoError(err)
	suite.True(receipt.NewBalance.Equal(decimal.NewFromInt(-14)))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPay_LedgerEntryCarriesSnapshotAndContext() {
	ctx := context.Background()
	req := dto.PayRequest{RFID: suite.account.RFID, ShuttleID: "SH-9", DriverID: "DRV-2", RouteID: "R1", TripID: "T-77"}

	suite.mockFareRepo.On("FindRouteByID", ctx, "R1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFareRepo.On("GetSettings", ctx).Return(&suite.settings, nil)
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(90), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return strings.HasPrefix(txn.TransactionID, "NUC-") &&
			txn.TransactionType == domain.Debit &&
			txn.Status == domain.Completed &&
			txn.Amount.Equal(decimal.NewFromInt(10)) &&
			txn.Balance.Equal(decimal.NewFromInt(90)) &&
			txn.Context.ShuttleID == "SH-9" &&
			txn.Context.DriverID == "DRV-2" &&
			txn.Context.RouteID == "R1" &&
			txn.Context.TripID == "T-77"
	})).Return(nil).Once()

	_, err := suite.service.Pay(ctx, req)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- Refund ---

func (suite *PaymentServiceTestSuite) TestRefund_RestoresBalanceAndDerivesID() {
	ctx := context.Background()
	originalID := "NUC-20250101120000-a1b2c3"
	original := domain.Transaction{
		TransactionID:   originalID,
		AccountID:       suite.account.AccountID,
		TransactionType: domain.Debit,
		Amount:          decimal.NewFromInt(15),
		Balance:         decimal.NewFromInt(85),
		Status:          domain.Completed,
	}
	suite.account.Balance = decimal.NewFromInt(85)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, originalID).Return(&original, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(100), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("MarkRefunded", ctx, originalID, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == "RFD-20250101120000-a1b2c3" &&
			txn.TransactionType == domain.Credit &&
			txn.Status == domain.Completed &&
			txn.Amount.Equal(decimal.NewFromInt(15)) &&
			txn.Balance.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()

	resp, err := suite.service.Refund(ctx, dto.RefundRequest{TransactionIDs: []string{originalID}, Reason: "duplicate tap"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Refunded)
	suite.Equal(0, resp.Failed)
	suite.Require().Len(resp.Results, 1)
	suite.Equal("RFD-20250101120000-a1b2c3", resp.Results[0].RefundTransactionID)
	suite.Require().NotNil(resp.Results[0].NewBalance)
	suite.True(resp.Results[0].NewBalance.Equal(decimal.NewFromInt(100)))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRefund_AlreadyRefundedFailsItem() {
	ctx := context.Background()
	originalID := "NUC-20250101120000-a1b2c3"
	original := domain.Transaction{
		TransactionID:   originalID,
		AccountID:       suite.account.AccountID,
		TransactionType: domain.Debit,
		Amount:          decimal.NewFromInt(15),
		Status:          domain.Refunded,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, originalID).Return(&original, nil).Once()

	resp, err := suite.service.Refund(ctx, dto.RefundRequest{TransactionIDs: []string{originalID}}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, resp.Refunded)
	suite.Equal(1, resp.Failed)
	suite.Contains(resp.Results[0].Error, "already refunded")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRefund_BatchIsolation() {
	ctx := context.Background()
	missingID := "NUC-20250101110000-ffffff"
	goodID := "NUC-20250101120000-a1b2c3"
	good := domain.Transaction{
		TransactionID:   goodID,
		AccountID:       suite.account.AccountID,
		TransactionType: domain.Debit,
		Amount:          decimal.NewFromInt(15),
		Status:          domain.Completed,
	}
	suite.account.Balance = decimal.NewFromInt(85)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, goodID).Return(&good, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(100), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("MarkRefunded", ctx, goodID, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	resp, err := suite.service.Refund(ctx, dto.RefundRequest{TransactionIDs: []string{missingID, goodID}}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Refunded)
	suite.Equal(1, resp.Failed)
	suite.Len(resp.Results, 2)
	suite.Equal("transaction not found", resp.Results[0].Error)
	suite.Empty(resp.Results[1].Error)
}

// --- Sync ---

func (suite *PaymentServiceTestSuite) TestSync_AppliesWithoutFloorOrActivationChecks() {
	ctx := context.Background()
	// Inactive account with a zero balance: an online Pay would reject this
	// twice over, the offline replay applies it regardless.
	suite.account.IsActive = false
	suite.account.Balance = decimal.Zero
	req := dto.SyncRequest{
		DeviceID:     "DEV-3",
		Transactions: []dto.SyncEntry{{RFID: suite.account.RFID}},
	}

	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(-15), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Context.DeviceID == "DEV-3" && txn.TransactionType == domain.Debit
	})).Return(nil).Once()

	resp, err := suite.service.Sync(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Processed)
	suite.Empty(resp.Rejected)
	// The offline path never consults fare settings: entry fare or the
	// deployment default only.
	suite.mockFareRepo.AssertNotCalled(suite.T(), "GetSettings", mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestSync_UnknownCardRejectedOthersApplied() {
	ctx := context.Background()
	entryFare := decimal.NewFromInt(9)
	req := dto.SyncRequest{
		DeviceID: "DEV-3",
		Transactions: []dto.SyncEntry{
			{RFID: "deadbeef"},
			{RFID: suite.account.RFID, FareAmount: &entryFare},
		},
	}

	suite.mockAccountRepo.On("FindAccountByRFID", ctx, "deadbeef").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(91), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()

	resp, err := suite.service.Sync(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Processed)
	suite.Require().Len(resp.Rejected, 1)
	suite.Equal(0, resp.Rejected[0].Index)
	suite.Equal("account not found", resp.Rejected[0].Error)
	suite.Require().Len(resp.Details, 1)
	suite.Equal(1, resp.Details[0].Index)
	suite.True(resp.Details[0].FareAmount.Equal(entryFare))
}

func (suite *PaymentServiceTestSuite) TestSync_ResubmittedBatchDebitsAgain() {
	ctx := context.Background()
	req := dto.SyncRequest{
		DeviceID: "DEV-3",
		Transactions: []dto.SyncEntry{
			{RFID: suite.account.RFID},
			{RFID: suite.account.RFID},
		},
	}

	// There is no duplicate detection: both entries read the same stored
	// balance and both debits are applied.
	suite.mockAccountRepo.On("FindAccountByRFID", ctx, suite.account.RFID).Return(&suite.account, nil).Twice()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(85), mock.Anything).Return(nil).Twice()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Twice()

	resp, err := suite.service.Sync(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(2, resp.Processed)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- CashIn ---

func (suite *PaymentServiceTestSuite) TestCashIn_CreditsInactiveAccount() {
	ctx := context.Background()
	suite.account.IsActive = false
	suite.account.Balance = decimal.Zero
	req := dto.CashInRequest{SchoolID: suite.account.SchoolID, Amount: decimal.NewFromInt(50)}

	suite.mockAccountRepo.On("FindAccountBySchoolID", ctx, suite.account.SchoolID).Return(&suite.account, nil).Once()
	suite.mockAccountRepo.On("UpdateBalance", ctx, suite.account.AccountID, decimal.NewFromInt(50), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return strings.HasPrefix(txn.TransactionID, "CSH-") &&
			txn.TransactionType == domain.Credit &&
			txn.Balance.Equal(decimal.NewFromInt(50))
	})).Return(nil).Once()

	receipt, err := suite.service.CashIn(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(receipt.NewBalance.Equal(decimal.NewFromInt(50)))
	suite.True(receipt.PreviousBalance.Equal(decimal.Zero))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCashIn_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := dto.CashInRequest{SchoolID: suite.account.SchoolID, Amount: decimal.Zero}

	receipt, err := suite.service.CashIn(ctx, req, suite.userID)

	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountBySchoolID", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCashIn_UnknownSchoolID() {
	ctx := context.Background()
	req := dto.CashInRequest{SchoolID: "9999-99999", Amount: decimal.NewFromInt(50)}

	suite.mockAccountRepo.On("FindAccountBySchoolID", ctx, "9999-99999").Return(nil, apperrors.ErrNotFound).Once()

	receipt, err := suite.service.CashIn(ctx, req, suite.userID)

	suite.Nil(receipt)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
