package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptKind distinguishes the notification templates.
type ReceiptKind string

const (
	ReceiptPayment ReceiptKind = "PAYMENT"
	ReceiptRefund  ReceiptKind = "REFUND"
	ReceiptCashIn  ReceiptKind = "CASH_IN"
)

// Receipt is the payload handed to the notification collaborator after a
// successful balance mutation.
type Receipt struct {
	Kind            ReceiptKind
	To              string
	Name            string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	TransactionID   string
	Timestamp       time.Time
}

// Notifier delivers receipts to the account holder. Callers invoke it
// fire-and-forget: a delivery failure must never affect the transaction
// outcome.
type Notifier interface {
	SendReceipt(ctx context.Context, receipt Receipt) error
}
