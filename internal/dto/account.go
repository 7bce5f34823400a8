package dto

import (
	"github.com/nucash/nucash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterAccountRequest creates a wallet account with a zero balance;
// the account stays inactive until the holder completes the PIN flow.
type RegisterAccountRequest struct {
	SchoolID string `json:"schoolId" binding:"required"`
	RFID     string `json:"rfid" binding:"required,rfid"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=STUDENT EMPLOYEE MERCHANT"`
}

// ActivateAccountRequest completes the PIN-change step of activation.
// OTP verification happens upstream of this endpoint.
type ActivateAccountRequest struct {
	PIN string `json:"pin" binding:"required,min=4,max=12,numeric"`
}

// TransferCardRequest re-points the account's RFID association to a new tag.
type TransferCardRequest struct {
	NewRFID string `json:"newRfid" binding:"required,rfid"`
}

// AccountResponse is the external representation of an account.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	SchoolID  string          `json:"schoolID"`
	RFID      string          `json:"rfid"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
}

// ToAccountResponse maps a domain account to its external representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		SchoolID:  a.SchoolID,
		RFID:      a.RFID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Balance:   a.Balance,
		IsActive:  a.IsActive,
	}
}

// ToAccountResponses maps a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
