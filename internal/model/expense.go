package model

import (
	"github.com/deppfellow/travel-sync/internal/lib/jsonvalue"
	"github.com/shopspring/decimal"
)

// Expense is a single spend recorded against a travel plan.
//
// Location is optional; nil is stored as SQL NULL.
type Expense struct {
	ID           string           `json:"id" validate:"required"`
	TravelPlanID string           `json:"travel_plan_id" validate:"required"`
	Category     string           `json:"category" validate:"required"`
	Amount       decimal.Decimal  `json:"amount"`
	Description  string           `json:"description"`
	Date         string           `json:"date" validate:"required"`
	Location     *jsonvalue.Value `json:"location"`
}
