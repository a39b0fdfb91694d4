package repository

import (
	"context"
	"time"

	"github.com/deppfellow/travel-sync/internal/database"
	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// TravelPlans is the storage contract for travel plans.
type TravelPlans interface {
	ListByUser(ctx context.Context, userID string) ([]model.TravelPlan, error)
	Upsert(ctx context.Context, plan *model.TravelPlan) error
	Patch(ctx context.Context, id string, set []model.Assignment) error
	Delete(ctx context.Context, id string) error
}

const planColumns = `id, user_id, title, destination, start_date, end_date, budget, travelers,
	preferences, itinerary, expenses, created_at, updated_at`

const (
	listPlansSQL = `select ` + planColumns + ` from travel_plans where user_id = $1 order by created_at, id`

	planExistsSQL = `select exists(select 1 from travel_plans where id = $1)`

	updatePlanSQL = `update travel_plans set
	user_id = $1, title = $2, destination = $3, start_date = $4, end_date = $5,
	budget = $6, travelers = $7, preferences = $8, itinerary = $9, expenses = $10,
	created_at = $11, updated_at = $12
	where id = $13`

	insertPlanSQL = `insert into travel_plans (` + planColumns + `)
	values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	deletePlanSQL = `delete from travel_plans where id = $1`
)

// TravelPlanRepository stores travel plans in Postgres.
type TravelPlanRepository struct {
	store
}

func NewTravelPlanRepository(db database.Querier, statementTimeout time.Duration) *TravelPlanRepository {
	return &TravelPlanRepository{store{db: db, timeout: statementTimeout}}
}

// ListByUser returns every plan owned by userID, oldest first.
func (r *TravelPlanRepository) ListByUser(ctx context.Context, userID string) ([]model.TravelPlan, error) {
	ctx, cancel := r.statementContext(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, listPlansSQL, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing travel plans")
	}

	plans, err := pgx.CollectRows(rows, scanTravelPlan)
	if err != nil {
		return nil, errors.Wrap(err, "scanning travel plans")
	}

	return plans, nil
}

func scanTravelPlan(row pgx.CollectableRow) (model.TravelPlan, error) {
	var p model.TravelPlan
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Destination, &p.StartDate, &p.EndDate,
		&p.Budget, &p.Travelers, &p.Preferences, &p.Itinerary, &p.Expenses,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Upsert overwrites the plan with the same id, or inserts it.
func (r *TravelPlanRepository) Upsert(ctx context.Context, p *model.TravelPlan) error {
	err := r.upsert(ctx, planExistsSQL, p.ID,
		updatePlanSQL, []any{
			p.UserID, p.Title, p.Destination, p.StartDate, p.EndDate,
			p.Budget, p.Travelers, p.Preferences, p.Itinerary, p.Expenses,
			p.CreatedAt, p.UpdatedAt, p.ID,
		},
		insertPlanSQL, []any{
			p.ID, p.UserID, p.Title, p.Destination, p.StartDate, p.EndDate,
			p.Budget, p.Travelers, p.Preferences, p.Itinerary, p.Expenses,
			p.CreatedAt, p.UpdatedAt,
		},
	)
	return errors.Wrapf(err, "upserting travel plan %q", p.ID)
}

// Patch sets only the given columns of one plan.
func (r *TravelPlanRepository) Patch(ctx context.Context, id string, set []model.Assignment) error {
	return errors.Wrapf(r.patch(ctx, "travel_plans", id, set), "patching travel plan %q", id)
}

// Delete removes the plan. Its expenses go with it through the foreign key.
func (r *TravelPlanRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.exec(ctx, nil, deletePlanSQL, id), "deleting travel plan %q", id)
}
