package repository

import (
	"github.com/deppfellow/travel-sync/internal/server"
)

// Repositories is a container for all repository instances.
//
// Fields are interfaces so tests can swap in an in-memory store.
type Repositories struct {
	TravelPlans TravelPlans
	Expenses    Expenses
}

// NewRepositories builds the Postgres-backed repositories on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	timeout := s.Config.Database.StatementTimeoutDuration()

	return &Repositories{
		TravelPlans: NewTravelPlanRepository(s.DB.Pool, timeout),
		Expenses:    NewExpenseRepository(s.DB.Pool, timeout),
	}
}
