// Package repository handles all interactions with the database.
//
// It contains the raw SQL for travel plans and expenses. Every statement
// is parameterized; column names only ever come from constants in this
// package or from the closed patch field sets in model.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/travel-sync/internal/database"
	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// store is the plumbing shared by the concrete repositories.
type store struct {
	db      database.Querier
	timeout time.Duration
}

// statementContext bounds a single statement. A zero timeout leaves ctx as is.
func (s store) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s store) exec(ctx context.Context, q pgx.Tx, sql string, args ...any) error {
	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	var err error
	if q != nil {
		_, err = q.Exec(ctx, sql, args...)
	} else {
		_, err = s.db.Exec(ctx, sql, args...)
	}
	return err
}

// upsert runs the existence check and the matching write in one transaction.
//
// The transaction is rolled back only when a statement fails; a committed
// transaction sees no further calls.
func (s store) upsert(ctx context.Context, existsSQL, id, updateSQL string, updateArgs []any, insertSQL string, insertArgs []any) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	if err := s.write(ctx, tx, existsSQL, id, updateSQL, updateArgs, insertSQL, insertArgs); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return errors.Wrap(tx.Commit(ctx), "committing transaction")
}

func (s store) write(ctx context.Context, tx pgx.Tx, existsSQL, id, updateSQL string, updateArgs []any, insertSQL string, insertArgs []any) error {
	var exists bool

	checkCtx, cancel := s.statementContext(ctx)
	err := tx.QueryRow(checkCtx, existsSQL, id).Scan(&exists)
	cancel()
	if err != nil {
		return errors.Wrap(err, "checking existence")
	}

	if exists {
		return errors.Wrap(s.exec(ctx, tx, updateSQL, updateArgs...), "updating row")
	}
	return errors.Wrap(s.exec(ctx, tx, insertSQL, insertArgs...), "inserting row")
}

// patch runs a single "update <table> set ... where id = $n".
//
// An empty set touches nothing. A missing id is not an error.
func (s store) patch(ctx context.Context, table, id string, set []model.Assignment) error {
	if len(set) == 0 {
		return nil
	}

	sql, args := buildPatch(table, id, set)
	return s.exec(ctx, nil, sql, args...)
}

func buildPatch(table, id string, set []model.Assignment) (string, []any) {
	clauses := make([]string, len(set))
	args := make([]any, 0, len(set)+1)

	for i, a := range set {
		clauses[i] = fmt.Sprintf("%s = $%d", a.Column, i+1)
		args = append(args, a.Value)
	}
	args = append(args, id)

	sql := fmt.Sprintf("update %s set %s where id = $%d", table, strings.Join(clauses, ", "), len(set)+1)
	return sql, args
}
