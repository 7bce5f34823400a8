package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayRequest is a single fare debit against the card identified by RFID.
// FareAmount, when present and positive, overrides every configured fare.
type PayRequest struct {
	RFID       string           `json:"rfid" binding:"required,rfid"`
	FareAmount *decimal.Decimal `json:"fareAmount,omitempty"`
	ShuttleID  string           `json:"shuttleID,omitempty"`
	DriverID   string           `json:"driverID,omitempty"`
	RouteID    string           `json:"routeID,omitempty"`
	TripID     string           `json:"tripID,omitempty"`
}

// PayReceipt is returned to the collecting device after a successful debit.
type PayReceipt struct {
	Name            string          `json:"name"`
	RFID            string          `json:"rfid"`
	FareAmount      decimal.Decimal `json:"fareAmount"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	TransactionID   string          `json:"transactionId"`
	Timestamp       time.Time       `json:"timestamp"`
}

// RefundRequest references previously completed transactions by their
// external identifiers. Items are processed independently.
type RefundRequest struct {
	TransactionIDs []string `json:"transactionIds" binding:"required,min=1"`
	Reason         string   `json:"reason,omitempty"`
}

// RefundItemResult is the per-item outcome of a batch refund.
type RefundItemResult struct {
	TransactionID       string           `json:"transactionId"`
	RefundTransactionID string           `json:"refundTransactionId,omitempty"`
	NewBalance          *decimal.Decimal `json:"newBalance,omitempty"`
	Error               string           `json:"error,omitempty"`
}

// RefundResponse aggregates per-item results; the call itself only fails on
// structural input errors.
type RefundResponse struct {
	Refunded int                `json:"refunded"`
	Failed   int                `json:"failed"`
	Results  []RefundItemResult `json:"results"`
	Errors   []string           `json:"errors"`
}

// SyncEntry is one debit attempt collected while the device was offline.
type SyncEntry struct {
	RFID       string           `json:"rfid" binding:"required,rfid"`
	FareAmount *decimal.Decimal `json:"fareAmount,omitempty"`
	ShuttleID  string           `json:"shuttleID,omitempty"`
	DriverID   string           `json:"driverID,omitempty"`
	RouteID    string           `json:"routeID,omitempty"`
}

// SyncRequest replays a batch of offline debit attempts in array order.
type SyncRequest struct {
	DeviceID     string      `json:"deviceId" binding:"required"`
	Transactions []SyncEntry `json:"transactions" binding:"required,min=1,dive"`
}

// SyncItemDetail records one applied offline debit.
type SyncItemDetail struct {
	Index         int             `json:"index"`
	RFID          string          `json:"rfid"`
	TransactionID string          `json:"transactionId"`
	FareAmount    decimal.Decimal `json:"fareAmount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
}

// SyncRejection records one offline debit that could not be applied.
type SyncRejection struct {
	Index int    `json:"index"`
	RFID  string `json:"rfid"`
	Error string `json:"error"`
}

// SyncResponse aggregates the replay outcome.
type SyncResponse struct {
	Processed int              `json:"processed"`
	Rejected  []SyncRejection  `json:"rejected"`
	Details   []SyncItemDetail `json:"details"`
}

// CashInRequest credits an account at the treasury counter.
type CashInRequest struct {
	SchoolID string          `json:"schoolId" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// CashInReceipt is returned to the treasury operator.
type CashInReceipt struct {
	Name            string          `json:"name"`
	SchoolID        string          `json:"schoolId"`
	Amount          decimal.Decimal `json:"amount"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	TransactionID   string          `json:"transactionId"`
	Timestamp       time.Time       `json:"timestamp"`
}
