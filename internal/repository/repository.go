// Package repository holds the SQL behind every resource.
//
// Each repository runs its statements through a database.Querier, which
// is the pool by default. WithTx returns a copy bound to a transaction so
// services can compose several repositories inside one database.WithTx.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// collectOne scans exactly one row into T. No row means table's 404.
func collectOne[T any](rows pgx.Rows, err error, table string) (T, error) {
	var zero T
	if err != nil {
		return zero, fmt.Errorf("query %s: %w", table, err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, sqlerr.NotFound(table)
		}
		return zero, fmt.Errorf("scan %s: %w", table, err)
	}
	return row, nil
}

// collectAll scans every row into T. It never returns a nil slice.
func collectAll[T any](rows pgx.Rows, err error, table string) ([]T, error) {
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func count(ctx context.Context, q database.Querier, sql string, args ...any) (int64, error) {
	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

// where accumulates AND-ed conditions. Each condition uses "?" for its
// single argument, which is rewritten to the next $n placeholder.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), -1))
}

func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// next is the placeholder for an argument appended after the filters.
func (w *where) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// likePattern wraps s for ILIKE, escaping its wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

func notFound(table string) error {
	return sqlerr.NotFound(table)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// rowErr maps a QueryRow scan error, turning a missing row into table's 404.
func rowErr(err error, table, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlerr.NotFound(table)
	}
	return fmt.Errorf("%s: %w", action, err)
}
