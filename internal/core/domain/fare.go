package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FareSettings is the single global settings row consulted on every debit.
// NegativeLimit is a negative number: the lowest balance an account may reach
// after a fare debit. A small overdraft is deliberate policy, the floor is
// not zero.
type FareSettings struct {
	CurrentFare   decimal.Decimal `json:"currentFare"`
	NegativeLimit decimal.Decimal `json:"negativeLimit"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ShuttleRoute holds the per-route fare override consulted between the
// explicit request fare and the global current fare.
type ShuttleRoute struct {
	RouteID       string          `json:"routeID"`
	Name          string          `json:"name"`
	Fare          decimal.Decimal `json:"fare"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}
