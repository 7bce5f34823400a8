package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrForbidden indicates that the operation is not permitted for the target
// account, e.g. a fare debit against an inactive card.
var ErrForbidden = errors.New("operation forbidden")

// ErrAlreadyRefunded indicates a refund was attempted on a transaction that
// has already been refunded.
var ErrAlreadyRefunded = errors.New("transaction already refunded")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// InsufficientBalanceError is returned when a debit would push the account
// balance below the configured negative limit. It carries the current balance,
// the attempted fare and the limit so callers can render an actionable message.
type InsufficientBalanceError struct {
	Balance       decimal.Decimal
	Fare          decimal.Decimal
	NegativeLimit decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: balance %s, fare %s, limit %s",
		e.Balance.String(), e.Fare.String(), e.NegativeLimit.String())
}

// AsInsufficientBalance unwraps err into an InsufficientBalanceError if possible.
func AsInsufficientBalance(err error) (*InsufficientBalanceError, bool) {
	var ibe *InsufficientBalanceError
	if errors.As(err, &ibe) {
		return ibe, true
	}
	return nil, false
}
