package service

import (
	"context"
	"encoding/json"

	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/deppfellow/travel-sync/internal/repository"
	"github.com/deppfellow/travel-sync/internal/server"
)

type ExpenseService struct {
	server *server.Server
	repo   repository.Expenses
}

func NewExpenseService(s *server.Server, repo repository.Expenses) *ExpenseService {
	return &ExpenseService{server: s, repo: repo}
}

func (s *ExpenseService) List(ctx context.Context, travelPlanID string) ([]model.Expense, error) {
	expenses, err := s.repo.ListByPlan(ctx, travelPlanID)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return expenses, nil
}

func (s *ExpenseService) Upsert(ctx context.Context, expense *model.Expense) error {
	return s.repo.Upsert(ctx, expense)
}

// Patch updates the recognized fields in updates and ignores the rest.
func (s *ExpenseService) Patch(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	set, err := assignments(model.ExpensePatchFields, updates)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		s.server.Logger.Debug().Str("expense_id", id).Msg("patch has no recognized fields")
		return nil
	}
	return s.repo.Patch(ctx, id, set)
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
