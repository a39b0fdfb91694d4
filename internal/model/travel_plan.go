package model

import (
	"time"

	"github.com/deppfellow/travel-sync/internal/lib/jsonvalue"
	"github.com/shopspring/decimal"
)

// TravelPlan is one trip owned by a user.
type TravelPlan struct {
	ID          string          `json:"id" validate:"required"`
	UserID      string          `json:"user_id" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Destination string          `json:"destination" validate:"required"`
	StartDate   string          `json:"start_date" validate:"required"`
	EndDate     string          `json:"end_date" validate:"required"`
	Budget      decimal.Decimal `json:"budget"`
	Travelers   int             `json:"travelers"`
	Preferences jsonvalue.Value `json:"preferences"`
	Itinerary   jsonvalue.Value `json:"itinerary"`
	Expenses    jsonvalue.Value `json:"expenses"`
	CreatedAt   time.Time       `json:"created_at" validate:"required"`
	UpdatedAt   time.Time       `json:"updated_at" validate:"required"`
}

// ApplyDefaults replaces missing list fields with an empty array.
func (p *TravelPlan) ApplyDefaults() {
	for _, v := range []*jsonvalue.Value{&p.Preferences, &p.Itinerary, &p.Expenses} {
		if v.IsNull() {
			*v = jsonvalue.ArrayValue()
		}
	}
}
