package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRole classifies the holder of a wallet account.
type AccountRole string

const (
	RoleStudent  AccountRole = "STUDENT"
	RoleEmployee AccountRole = "EMPLOYEE"
	RoleMerchant AccountRole = "MERCHANT"
)

// Account represents a campus wallet account within the core domain.
// This is the primary representation used by services.
//
// An account is created at registration with a zero balance and inactive; it
// becomes active once the holder completes the PIN-change flow. The RFID tag
// is an association, not an identity: a card transfer re-points RFID to the
// same account rather than creating a new one, so transaction history is
// never lost.
type Account struct {
	AccountID string          `json:"accountID"` // Primary key (UUID)
	SchoolID  string          `json:"schoolID"`  // School/merchant identifier, unique
	RFID      string          `json:"rfid"`      // Current card tag, unique
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      AccountRole     `json:"role"`
	PINHash   string          `json:"-"` // bcrypt hash, set on activation
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"` // Debits are rejected while false
	AuditFields
}
