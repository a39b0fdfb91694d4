package handler

import (
	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/deppfellow/travel-sync/internal/service"
)

// Handlers groups every HTTP handler so the router takes one value.
type Handlers struct {
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
	TravelPlans *TravelPlanHandler
	Expenses    *ExpenseHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
		TravelPlans: NewTravelPlanHandler(s, services.TravelPlans),
		Expenses:    NewExpenseHandler(s, services.Expenses),
	}
}
