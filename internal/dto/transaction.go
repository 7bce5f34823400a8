package dto

import (
	"time"

	"github.com/nucash/nucash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams holds cursor-pagination parameters for ledger reads.
type ListTransactionsParams struct {
	Limit     int
	NextToken *string
}

// TransactionResponse is the external representation of a ledger entry.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	Status          string          `json:"status"`
	ShuttleID       string          `json:"shuttleID,omitempty"`
	DriverID        string          `json:"driverID,omitempty"`
	RouteID         string          `json:"routeID,omitempty"`
	TripID          string          `json:"tripID,omitempty"`
	DeviceID        string          `json:"deviceID,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToTransactionResponse maps a domain transaction to its external form.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
		TransactionType: string(t.TransactionType),
		Amount:          t.Amount,
		Balance:         t.Balance,
		Status:          string(t.Status),
		ShuttleID:       t.Context.ShuttleID,
		DriverID:        t.Context.DriverID,
		RouteID:         t.Context.RouteID,
		TripID:          t.Context.TripID,
		DeviceID:        t.Context.DeviceID,
		Reason:          t.Context.Reason,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses maps a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ListTransactionsResponse is a page of ledger entries plus the cursor for
// the next page, nil when exhausted.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ReplayCheckResponse reports whether summing the signed amounts of all
// completed ledger entries in creation order reconstructs the stored balance.
type ReplayCheckResponse struct {
	AccountID        string          `json:"accountID"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	ReplayedBalance  decimal.Decimal `json:"replayedBalance"`
	Consistent       bool            `json:"consistent"`
	TransactionCount int             `json:"transactionCount"`
}
