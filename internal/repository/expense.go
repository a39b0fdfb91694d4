package repository

import (
	"context"
	"time"

	"github.com/deppfellow/travel-sync/internal/database"
	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Expenses is the storage contract for expenses.
type Expenses interface {
	ListByPlan(ctx context.Context, travelPlanID string) ([]model.Expense, error)
	Upsert(ctx context.Context, expense *model.Expense) error
	Patch(ctx context.Context, id string, set []model.Assignment) error
	Delete(ctx context.Context, id string) error
}

const expenseColumns = `id, travel_plan_id, category, amount, description, date, location`

const (
	listExpensesSQL = `select ` + expenseColumns + ` from expenses where travel_plan_id = $1 order by date, id`

	expenseExistsSQL = `select exists(select 1 from expenses where id = $1)`

	updateExpenseSQL = `update expenses set
	travel_plan_id = $1, category = $2, amount = $3, description = $4, date = $5, location = $6
	where id = $7`

	insertExpenseSQL = `insert into expenses (` + expenseColumns + `)
	values ($1, $2, $3, $4, $5, $6, $7)`

	deleteExpenseSQL = `delete from expenses where id = $1`
)

// ExpenseRepository stores expenses in Postgres.
type ExpenseRepository struct {
	store
}

func NewExpenseRepository(db database.Querier, statementTimeout time.Duration) *ExpenseRepository {
	return &ExpenseRepository{store{db: db, timeout: statementTimeout}}
}

// ListByPlan returns the expenses of one plan ordered by date.
func (r *ExpenseRepository) ListByPlan(ctx context.Context, travelPlanID string) ([]model.Expense, error) {
	ctx, cancel := r.statementContext(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, listExpensesSQL, travelPlanID)
	if err != nil {
		return nil, errors.Wrap(err, "listing expenses")
	}

	expenses, err := pgx.CollectRows(rows, scanExpense)
	if err != nil {
		return nil, errors.Wrap(err, "scanning expenses")
	}

	return expenses, nil
}

func scanExpense(row pgx.CollectableRow) (model.Expense, error) {
	var e model.Expense
	err := row.Scan(&e.ID, &e.TravelPlanID, &e.Category, &e.Amount, &e.Description, &e.Date, &e.Location)
	return e, err
}

// Upsert overwrites the expense with the same id, or inserts it.
//
// A travel_plan_id that names no plan fails with a foreign key violation.
func (r *ExpenseRepository) Upsert(ctx context.Context, e *model.Expense) error {
	err := r.upsert(ctx, expenseExistsSQL, e.ID,
		updateExpenseSQL, []any{e.TravelPlanID, e.Category, e.Amount, e.Description, e.Date, e.Location, e.ID},
		insertExpenseSQL, []any{e.ID, e.TravelPlanID, e.Category, e.Amount, e.Description, e.Date, e.Location},
	)
	return errors.Wrapf(err, "upserting expense %q", e.ID)
}

// Patch sets only the given columns of one expense.
func (r *ExpenseRepository) Patch(ctx context.Context, id string, set []model.Assignment) error {
	return errors.Wrapf(r.patch(ctx, "expenses", id, set), "patching expense %q", id)
}

// Delete removes the expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.exec(ctx, nil, deleteExpenseSQL, id), "deleting expense %q", id)
}
