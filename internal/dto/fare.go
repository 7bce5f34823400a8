package dto

import (
	"github.com/shopspring/decimal"
)

// UpdateFareSettingsRequest partially updates the global fare settings row.
type UpdateFareSettingsRequest struct {
	CurrentFare   *decimal.Decimal `json:"currentFare,omitempty"`
	NegativeLimit *decimal.Decimal `json:"negativeLimit,omitempty"`
}

// UpsertRouteRequest creates or updates a shuttle route fare.
type UpsertRouteRequest struct {
	Name string          `json:"name" binding:"required"`
	Fare decimal.Decimal `json:"fare" binding:"required"`
}
