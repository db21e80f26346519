package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// Isolation levels accepted by WithTx. The zero value means READ COMMITTED.
const (
	ReadCommitted  = pgx.ReadCommitted
	RepeatableRead = pgx.RepeatableRead
	Serializable   = pgx.Serializable
)

// TxFunc is the body of a transaction.
type TxFunc func(tx pgx.Tx) error

// WithTx runs fn inside a transaction at the given isolation level.
//
// The transaction commits when fn returns nil and rolls back when fn
// returns an error or panics. Isolation guarantees, locking and conflict
// detection are left to PostgreSQL; nothing is retried here.
func (db *Database) WithTx(ctx context.Context, iso pgx.TxIsoLevel, fn TxFunc) (err error) {
	if iso == "" {
		iso = ReadCommitted
	}

	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			db.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			db.rollback(ctx, tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (db *Database) rollback(ctx context.Context, tx pgx.Tx) {
	// The request context may already be cancelled; the rollback still has to go out.
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		db.log.Error().Err(err).Msg("transaction rollback failed")
	}
}

// InTx is WithTx for bodies that produce a value.
func InTx[T any](ctx context.Context, db *Database, iso pgx.TxIsoLevel, fn func(tx pgx.Tx) (T, error)) (T, error) {
	var result T
	err := db.WithTx(ctx, iso, func(tx pgx.Tx) error {
		var err error
		result, err = fn(tx)
		return err
	})
	return result, err
}

// Query is one statement of a multi-statement transaction.
type Query struct {
	SQL  string
	Args []any
}

// ExecMulti runs queries in order inside one transaction and returns the
// rows affected by each. The first failure rolls everything back.
func (db *Database) ExecMulti(ctx context.Context, iso pgx.TxIsoLevel, queries []Query) ([]int64, error) {
	return InTx(ctx, db, iso, func(tx pgx.Tx) ([]int64, error) {
		affected := make([]int64, 0, len(queries))
		for i, q := range queries {
			tag, err := tx.Exec(ctx, q.SQL, q.Args...)
			if err != nil {
				return nil, fmt.Errorf("query %d: %w", i, err)
			}
			affected = append(affected, tag.RowsAffected())
		}
		return affected, nil
	})
}

// Dependency names rows in Table that reference the deleted row through ForeignKey.
// Message, when set, replaces the default conflict message.
type Dependency struct {
	Table      string
	ForeignKey string
	Message    string
}

// SafeDelete deletes table.id only when no dependency still references it.
//
// Dependencies are counted inside the same transaction as the delete. A
// referencing row yields 409, a missing row 404.
func (db *Database) SafeDelete(ctx context.Context, table string, id any, deps ...Dependency) error {
	return db.WithTx(ctx, ReadCommitted, func(tx pgx.Tx) error {
		return SafeDeleteTx(ctx, tx, table, id, deps...)
	})
}

// SafeDeleteTx is SafeDelete for callers that already hold a transaction.
func SafeDeleteTx(ctx context.Context, q Querier, table string, id any, deps ...Dependency) error {
	for _, dep := range deps {
		count, err := countReferences(ctx, q, dep, id)
		if err != nil {
			return err
		}
		if count > 0 {
			message := dep.Message
			if message == "" {
				message = fmt.Sprintf("Cannot delete: %d related records exist in %s", count, dep.Table)
			}
			return errs.NewConflictError(message, true, errs.Code("DEPENDENT_RECORDS_EXIST"))
		}
	}

	return deleteByID(ctx, q, table, id)
}

// DeleteWithCascade removes every dependent row, then the row itself, in
// one transaction.
func (db *Database) DeleteWithCascade(ctx context.Context, table string, id any, deps ...Dependency) error {
	return db.WithTx(ctx, ReadCommitted, func(tx pgx.Tx) error {
		for _, dep := range deps {
			sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(dep.Table), ident(dep.ForeignKey))
			if _, err := tx.Exec(ctx, sql, id); err != nil {
				return fmt.Errorf("cascade delete %s: %w", dep.Table, err)
			}
		}
		return deleteByID(ctx, tx, table, id)
	})
}

func countReferences(ctx context.Context, q Querier, dep Dependency, id any) (int64, error) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", ident(dep.Table), ident(dep.ForeignKey))

	var count int64
	if err := q.QueryRow(ctx, sql, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count references in %s: %w", dep.Table, err)
	}
	return count, nil
}

func deleteByID(ctx context.Context, q Querier, table string, id any) error {
	tag, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", ident(table)), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound(table)
	}
	return nil
}

// Exists reports whether table has a row with the given id.
func Exists(ctx context.Context, q Querier, table string, id any) (bool, error) {
	var exists bool
	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", ident(table))
	if err := q.QueryRow(ctx, sql, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s exists: %w", table, err)
	}
	return exists, nil
}

// UpdateWithValidation checks the row exists, then applies set and scans
// the returned row into T by column name. An empty set is a 400.
func UpdateWithValidation[T any](ctx context.Context, db *Database, table string, id any, set *UpdateSet, returning string) (T, error) {
	return InTx(ctx, db, ReadCommitted, func(tx pgx.Tx) (T, error) {
		return UpdateTx[T](ctx, tx, table, id, set, returning)
	})
}

// UpdateTx is UpdateWithValidation inside an existing transaction.
func UpdateTx[T any](ctx context.Context, q Querier, table string, id any, set *UpdateSet, returning string) (T, error) {
	var zero T

	sql, args, err := set.Build(table, id, returning)
	if err != nil {
		return zero, err
	}

	exists, err := Exists(ctx, q, table, id)
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, sqlerr.NotFound(table)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", table, err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, sqlerr.NotFound(table)
		}
		return zero, fmt.Errorf("update %s: %w", table, err)
	}
	return row, nil
}

// BulkInsert inserts every record in one transaction and returns the
// generated ids in input order. Each record holds one value per column.
func (db *Database) BulkInsert(ctx context.Context, table string, columns []string, records [][]any) ([]string, error) {
	if len(records) == 0 {
		return nil, errs.NewBadRequestError("No records to insert", true, nil, nil, nil)
	}
	if len(columns) == 0 {
		return nil, errs.NewBadRequestError("No columns to insert", true, nil, nil, nil)
	}

	sql := insertStatement(table, columns)

	return InTx(ctx, db, ReadCommitted, func(tx pgx.Tx) ([]string, error) {
		batch := &pgx.Batch{}
		for i, record := range records {
			if len(record) != len(columns) {
				return nil, fmt.Errorf("record %d has %d values, want %d", i, len(record), len(columns))
			}
			batch.Queue(sql, record...)
		}

		results := tx.SendBatch(ctx, batch)
		ids := make([]string, 0, len(records))
		for range records {
			var id string
			if err := results.QueryRow().Scan(&id); err != nil {
				_ = results.Close()
				return nil, fmt.Errorf("bulk insert into %s: %w", table, err)
			}
			ids = append(ids, id)
		}
		if err := results.Close(); err != nil {
			return nil, fmt.Errorf("bulk insert into %s: %w", table, err)
		}
		return ids, nil
	})
}

func insertStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ident(c)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id::text",
		ident(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// AtomicIncrement adds amount to table.column for id under REPEATABLE READ,
// touches updated_at and returns the new value.
func (db *Database) AtomicIncrement(ctx context.Context, table string, id any, column string, amount int64) (int64, error) {
	sql := incrementStatement(table, column)

	return InTx(ctx, db, RepeatableRead, func(tx pgx.Tx) (int64, error) {
		var value int64
		if err := tx.QueryRow(ctx, sql, amount, id).Scan(&value); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, sqlerr.NotFound(table)
			}
			return 0, fmt.Errorf("increment %s.%s: %w", table, column, err)
		}
		return value, nil
	})
}

func incrementStatement(table, column string) string {
	return fmt.Sprintf("UPDATE %s SET %s = %s + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING %s",
		ident(table), ident(column), ident(column), ident(column))
}

// ident quotes a table or column name.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
