// Package repotest provides an in-memory store that behaves like the
// Postgres repositories, for tests that should not need a database.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/deppfellow/travel-sync/internal/lib/jsonvalue"
	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/deppfellow/travel-sync/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Memory holds plans and expenses with the same constraints as the schema:
// an expense needs an existing plan, and deleting a plan deletes its expenses.
type Memory struct {
	mu       sync.Mutex
	plans    map[string]model.TravelPlan
	expenses map[string]model.Expense

	// Writes counts every statement that would have modified a table.
	Writes int

	// Err, when set, is returned by every call.
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		plans:    map[string]model.TravelPlan{},
		expenses: map[string]model.Expense{},
	}
}

// Repositories wires the store into a repository container.
func (m *Memory) Repositories() *repository.Repositories {
	return &repository.Repositories{
		TravelPlans: planStore{m},
		Expenses:    expenseStore{m},
	}
}

// ExpenseCount returns how many expenses are stored.
func (m *Memory) ExpenseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.expenses)
}

type planStore struct{ m *Memory }

func (s planStore) ListByUser(_ context.Context, userID string) ([]model.TravelPlan, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}

	out := []model.TravelPlan{}
	for _, p := range s.m.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s planStore) Upsert(_ context.Context, p *model.TravelPlan) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}

	s.m.Writes++
	s.m.plans[p.ID] = *p
	return nil
}

func (s planStore) Patch(_ context.Context, id string, set []model.Assignment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if len(set) == 0 {
		return nil
	}

	s.m.Writes++
	p, ok := s.m.plans[id]
	if !ok {
		return nil
	}
	for _, a := range set {
		if err := applyPlan(&p, a); err != nil {
			return err
		}
	}
	s.m.plans[id] = p
	return nil
}

func (s planStore) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}

	s.m.Writes++
	delete(s.m.plans, id)
	for eid, e := range s.m.expenses {
		if e.TravelPlanID == id {
			delete(s.m.expenses, eid)
		}
	}
	return nil
}

type expenseStore struct{ m *Memory }

func (s expenseStore) ListByPlan(_ context.Context, planID string) ([]model.Expense, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}

	out := []model.Expense{}
	for _, e := range s.m.expenses {
		if e.TravelPlanID == planID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s expenseStore) Upsert(_ context.Context, e *model.Expense) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}

	if _, ok := s.m.plans[e.TravelPlanID]; !ok {
		return foreignKeyViolation()
	}
	s.m.Writes++
	s.m.expenses[e.ID] = *e
	return nil
}

func (s expenseStore) Patch(_ context.Context, id string, set []model.Assignment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}
	if len(set) == 0 {
		return nil
	}

	s.m.Writes++
	e, ok := s.m.expenses[id]
	if !ok {
		return nil
	}
	for _, a := range set {
		if err := applyExpense(&e, a); err != nil {
			return err
		}
	}
	if _, ok := s.m.plans[e.TravelPlanID]; !ok {
		return foreignKeyViolation()
	}
	s.m.expenses[id] = e
	return nil
}

func (s expenseStore) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return s.m.Err
	}

	s.m.Writes++
	delete(s.m.expenses, id)
	return nil
}

func foreignKeyViolation() error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "expenses" violates foreign key constraint "expenses_travel_plan_id_fkey"`,
		TableName:      "expenses",
		ConstraintName: "expenses_travel_plan_id_fkey",
	}
}

func applyPlan(p *model.TravelPlan, a model.Assignment) error {
	switch a.Column {
	case "user_id":
		p.UserID = a.Value.(string)
	case "title":
		p.Title = a.Value.(string)
	case "destination":
		p.Destination = a.Value.(string)
	case "start_date":
		p.StartDate = a.Value.(string)
	case "end_date":
		p.EndDate = a.Value.(string)
	case "budget":
		p.Budget = a.Value.(decimal.Decimal)
	case "travelers":
		p.Travelers = a.Value.(int)
	case "preferences":
		p.Preferences = a.Value.(jsonvalue.Value)
	case "itinerary":
		p.Itinerary = a.Value.(jsonvalue.Value)
	case "expenses":
		p.Expenses = a.Value.(jsonvalue.Value)
	case "created_at":
		p.CreatedAt = a.Value.(time.Time)
	case "updated_at":
		p.UpdatedAt = a.Value.(time.Time)
	default:
		return fmt.Errorf(`column %q of relation "travel_plans" does not exist`, a.Column)
	}
	return nil
}

func applyExpense(e *model.Expense, a model.Assignment) error {
	switch a.Column {
	case "travel_plan_id":
		e.TravelPlanID = a.Value.(string)
	case "category":
		e.Category = a.Value.(string)
	case "amount":
		e.Amount = a.Value.(decimal.Decimal)
	case "description":
		e.Description = a.Value.(string)
	case "date":
		e.Date = a.Value.(string)
	case "location":
		if a.Value == nil {
			e.Location = nil
		} else {
			v := a.Value.(jsonvalue.Value)
			e.Location = &v
		}
	default:
		return fmt.Errorf(`column %q of relation "expenses" does not exist`, a.Column)
	}
	return nil
}
