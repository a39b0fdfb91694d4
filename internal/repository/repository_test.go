package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/travel-sync/internal/lib/jsonvalue"
	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func samplePlan() *model.TravelPlan {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.TravelPlan{
		ID:          "p1",
		UserID:      "u1",
		Title:       "Trip",
		Destination: "Tokyo",
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-10",
		Budget:      decimal.NewFromInt(1000),
		Travelers:   2,
		Preferences: jsonvalue.ArrayValue(),
		Itinerary:   jsonvalue.ArrayValue(),
		Expenses:    jsonvalue.ArrayValue(),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func parseJSON(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestPlanUpsertInsertsWhenMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(planExistsSQL).WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertPlanSQL).WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), samplePlan()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanUpsertUpdatesWhenPresent(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(planExistsSQL).WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(updatePlanSQL).WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), samplePlan()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanUpsertRollsBackOnError(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(planExistsSQL).WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertPlanSQL).WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", TableName: "travel_plans"})
	mock.ExpectRollback()

	err := repo.Upsert(context.Background(), samplePlan())
	require.Error(t, err)

	var pgerr *pgconn.PgError
	assert.True(t, errors.As(err, &pgerr), "driver error stays in the chain")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanUpsertReportsFailedCommit(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(planExistsSQL).WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(updatePlanSQL).WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	err := repo.Upsert(context.Background(), samplePlan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "committing transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanUpsertBeginFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	err := repo.Upsert(context.Background(), samplePlan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beginning transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanListByUser(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	p := samplePlan()
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "title", "destination", "start_date", "end_date", "budget", "travelers",
		"preferences", "itinerary", "expenses", "created_at", "updated_at",
	}).AddRow(
		p.ID, p.UserID, p.Title, p.Destination, p.StartDate, p.EndDate, p.Budget, p.Travelers,
		parseJSON(t, `["museums"]`), p.Itinerary, p.Expenses, p.CreatedAt, p.UpdatedAt,
	)
	mock.ExpectQuery(listPlansSQL).WithArgs("u1").WillReturnRows(rows)

	plans, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)

	assert.Equal(t, "Tokyo", plans[0].Destination)
	assert.True(t, decimal.NewFromInt(1000).Equal(plans[0].Budget))
	assert.Len(t, plans[0].Preferences.Items(), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanListEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectQuery(listPlansSQL).WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	plans, err := repo.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestPlanPatchBuildsStatementFromAssignments(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	set := []model.Assignment{
		{Column: "title", Value: "Kyoto"},
		{Column: "budget", Value: decimal.NewFromInt(1500)},
	}

	mock.ExpectExec("update travel_plans set title = $1, budget = $2 where id = $3").
		WithArgs("Kyoto", pgxmock.AnyArg(), "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Patch(context.Background(), "p1", set))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchWithNothingToSetSkipsStorage(t *testing.T) {
	mock := newMock(t)
	repo := NewExpenseRepository(mock, time.Second)

	require.NoError(t, repo.Patch(context.Background(), "e1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelPlanRepository(mock, time.Second)

	mock.ExpectExec(deletePlanSQL).WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseUpsertAndList(t *testing.T) {
	mock := newMock(t)
	repo := NewExpenseRepository(mock, 0)

	e := &model.Expense{
		ID:           "e1",
		TravelPlanID: "p1",
		Category:     "food",
		Amount:       decimal.RequireFromString("12.50"),
		Description:  "ramen",
		Date:         "2025-01-02",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(expenseExistsSQL).WithArgs("e1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertExpenseSQL).WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), e))

	loc := parseJSON(t, `{"name":"Ichiran"}`)
	rows := pgxmock.NewRows([]string{"id", "travel_plan_id", "category", "amount", "description", "date", "location"}).
		AddRow("e1", "p1", "food", e.Amount, "ramen", "2025-01-02", nil).
		AddRow("e2", "p1", "food", e.Amount, "sushi", "2025-01-03", &loc)
	mock.ExpectQuery(listExpensesSQL).WithArgs("p1").WillReturnRows(rows)

	expenses, err := repo.ListByPlan(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Nil(t, expenses[0].Location)
	require.NotNil(t, expenses[1].Location)

	require.Len(t, expenses[1].Location.Members(), 1)
	assert.Equal(t, "Ichiran", expenses[1].Location.Members()[0].Value.Str())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseDeleteError(t *testing.T) {
	mock := newMock(t)
	repo := NewExpenseRepository(mock, time.Second)

	mock.ExpectExec(deleteExpenseSQL).WithArgs("e1").WillReturnError(errors.New("conn closed"))

	err := repo.Delete(context.Background(), "e1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `deleting expense "e1"`)
}

func TestBuildPatch(t *testing.T) {
	sql, args := buildPatch("expenses", "e9", []model.Assignment{
		{Column: "category", Value: "transport"},
		{Column: "location", Value: nil},
	})

	assert.Equal(t, "update expenses set category = $1, location = $2 where id = $3", sql)
	assert.Equal(t, []any{"transport", nil, "e9"}, args)
}
