package sqlerr

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/travel-sync/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fkViolation() *pgconn.PgError {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "expenses" violates foreign key constraint`,
		TableName:      "expenses",
		ColumnName:     "travel_plan_id",
		ConstraintName: "expenses_travel_plan_id_fkey",
	}
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("bogus"))
}

func TestClassifyWrappedPgError(t *testing.T) {
	err := pkgerrors.Wrap(fkViolation(), "upsert expense")

	sqlErr := Classify(err)
	require.NotNil(t, sqlErr)
	assert.Equal(t, ForeignKeyViolation, sqlErr.Code)
	assert.Equal(t, "expenses", sqlErr.TableName)

	var pgerr *pgconn.PgError
	assert.True(t, errors.As(sqlErr, &pgerr))

	assert.Nil(t, Classify(errors.New("dial tcp: connection refused")))
}

func TestHandleErrorIsAlwaysOpaque(t *testing.T) {
	for _, err := range []error{
		fkViolation(),
		&pgconn.PgError{Code: "23505", TableName: "travel_plans", ConstraintName: "travel_plans_pkey"},
		context.DeadlineExceeded,
		errors.New("pool closed"),
	} {
		out := HandleError(err)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, out, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, errs.KindStorage, httpErr.Kind)
		assert.Equal(t, "Internal Server Error", httpErr.Message)
	}
}

func TestHandleErrorKeepsHTTPErrors(t *testing.T) {
	in := errs.NewUnauthorizedError("Unauthorized", false)
	assert.Same(t, in, HandleError(in))
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "EXPENSE_NOT_FOUND", generateErrorCode("expenses", ForeignKeyViolation))
	assert.Equal(t, "TRAVEL_PLAN_ALREADY_EXISTS", generateErrorCode("travel_plans", UniqueViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "The referenced Travel Plan does not exist", describe(ConvertPgError(fkViolation())))
	assert.Equal(t, "A Travel Plan with this identifier already exists",
		describe(&Error{Code: UniqueViolation, TableName: "travel_plans", ConstraintName: "travel_plans_pkey"}))
	assert.Equal(t, "A User with this Email already exists",
		describe(&Error{Code: UniqueViolation, TableName: "users", ConstraintName: "users_email_key"}))
	assert.Equal(t, "The Title is required", describe(&Error{Code: NotNullViolation, ColumnName: "title"}))
}

func TestAnnotate(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	Annotate(logger.Error(), pkgerrors.Wrap(fkViolation(), "upsert expense")).Msg("storage failure")

	out := buf.String()
	assert.Contains(t, out, `"db_error":"foreign_key_violation"`)
	assert.Contains(t, out, `"db_error_code":"EXPENSE_NOT_FOUND"`)
	assert.Contains(t, out, `"db_sqlstate":"23503"`)

	buf.Reset()
	Annotate(logger.Error(), context.DeadlineExceeded).Msg("storage failure")
	assert.Contains(t, buf.String(), `"db_error":"statement_timeout"`)
}
