package service

import (
	"github.com/deppfellow/travel-sync/internal/repository"
	"github.com/deppfellow/travel-sync/internal/server"
)

type Services struct {
	Access      *AccessService
	TravelPlans *TravelPlanService
	Expenses    *ExpenseService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Access:      NewAccessService(s),
		TravelPlans: NewTravelPlanService(s, repos.TravelPlans),
		Expenses:    NewExpenseService(s, repos.Expenses),
	}, nil
}
