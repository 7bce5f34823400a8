package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a ledger entry is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// TransactionStatus is the lifecycle state of a ledger entry.
// The only legal transition is Completed -> Refunded, and it is one-way.
type TransactionStatus string

const (
	Completed TransactionStatus = "COMPLETED"
	Refunded  TransactionStatus = "REFUNDED"
)

// TransactionContext carries the optional actors involved in a balance
// mutation. Informational only, not part of any ledger invariant.
type TransactionContext struct {
	ShuttleID string `json:"shuttleID,omitempty"`
	DriverID  string `json:"driverID,omitempty"`
	RouteID   string `json:"routeID,omitempty"`
	TripID    string `json:"tripID,omitempty"`
	DeviceID  string `json:"deviceID,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Transaction is one immutable ledger entry for one balance mutation.
//
// Balance is the account balance immediately *after* this entry applied,
// captured at write time. It is a snapshot, never recomputed at read time.
// A refund does not touch the original entry's Amount or Balance; it creates
// a second, independent Credit entry and flips the original's Status as an
// audit marker.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // e.g. NUC-20250829143015-a1b2c3
	AccountID       string            `json:"accountID"`
	TransactionType TransactionType   `json:"transactionType"`
	Amount          decimal.Decimal   `json:"amount"`  // Positive magnitude
	Balance         decimal.Decimal   `json:"balance"` // Snapshot after this entry
	Status          TransactionStatus `json:"status"`
	Context         TransactionContext
	CreatedAt       time.Time `json:"createdAt"`
}

// SignedAmount returns the amount with the sign this entry applies to the
// account balance: negative for debits, positive for credits.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}
