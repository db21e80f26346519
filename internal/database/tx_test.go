package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB connects to TRAVEL_TEST_DATABASE_URL and creates a parent/child
// table pair that is dropped when the test ends.
func testDB(t *testing.T) (*Database, string, string) {
	t.Helper()

	dsn := os.Getenv("TRAVEL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TRAVEL_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	parent := "tx_parent_" + suffix
	child := "tx_child_" + suffix

	_, err = pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE %s (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name text NOT NULL,
		views bigint NOT NULL DEFAULT 0,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`, ident(parent)))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE %s (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		parent_id uuid NOT NULL REFERENCES %s(id),
		label text NOT NULL
	)`, ident(child), ident(parent)))
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s, %s", ident(child), ident(parent)))
		pool.Close()
	})

	logger := zerolog.Nop()
	return &Database{Pool: pool, log: &logger}, parent, child
}

func insertParent(t *testing.T, db *Database, table, name string) string {
	t.Helper()
	var id string
	err := db.Pool.QueryRow(context.Background(),
		fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING id::text", ident(table)), name).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, parent, _ := testDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTx(ctx, ReadCommitted, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s (name) VALUES ('ghost')", ident(parent))); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ident(parent))).Scan(&count))
	assert.Zero(t, count)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db, parent, _ := testDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = db.WithTx(ctx, Serializable, func(tx pgx.Tx) error {
			_, _ = tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s (name) VALUES ('ghost')", ident(parent)))
			panic("handler bug")
		})
	})

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ident(parent))).Scan(&count))
	assert.Zero(t, count)
}

func TestSafeDeleteRefusesWhileReferenced(t *testing.T) {
	db, parent, child := testDB(t)
	ctx := context.Background()

	id := insertParent(t, db, parent, "Umrah Reguler")
	_, err := db.Pool.Exec(ctx, fmt.Sprintf("INSERT INTO %s (parent_id, label) VALUES ($1, 'a'), ($1, 'b')", ident(child)), id)
	require.NoError(t, err)

	err = db.SafeDelete(ctx, parent, id, Dependency{Table: child, ForeignKey: "parent_id"})
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, fmt.Sprintf("Cannot delete: 2 related records exist in %s", child), httpErr.Message)

	exists, err := Exists(ctx, db.Pool, parent, id)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSafeDeleteMissingRow(t *testing.T) {
	db, parent, _ := testDB(t)

	err := db.SafeDelete(context.Background(), parent, "00000000-0000-4000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, sqlerr.HandleError(err).(*errs.HTTPError).Status)
}

func TestDeleteWithCascade(t *testing.T) {
	db, parent, child := testDB(t)
	ctx := context.Background()

	id := insertParent(t, db, parent, "Halal Tour Jepang")
	_, err := db.Pool.Exec(ctx, fmt.Sprintf("INSERT INTO %s (parent_id, label) VALUES ($1, 'a')", ident(child)), id)
	require.NoError(t, err)

	require.NoError(t, db.DeleteWithCascade(ctx, parent, id, Dependency{Table: child, ForeignKey: "parent_id"}))

	exists, err := Exists(ctx, db.Pool, parent, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBulkInsertIsAllOrNothing(t *testing.T) {
	db, parent, child := testDB(t)
	ctx := context.Background()

	id := insertParent(t, db, parent, "Turki")

	ids, err := db.BulkInsert(ctx, child, []string{"parent_id", "label"}, [][]any{{id, "a"}, {id, "b"}})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	_, err = db.BulkInsert(ctx, child, []string{"parent_id", "label"}, [][]any{{id, "c"}, {id, nil}})
	require.Error(t, err)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ident(child))).Scan(&count))
	assert.Equal(t, 2, count)

	_, err = db.BulkInsert(ctx, child, []string{"parent_id", "label"}, nil)
	assert.EqualError(t, err, "No records to insert")
}

func TestAtomicIncrement(t *testing.T) {
	db, parent, _ := testDB(t)
	ctx := context.Background()

	id := insertParent(t, db, parent, "Artikel")

	value, err := db.AtomicIncrement(ctx, parent, id, "views", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, value)

	var before time.Time
	require.NoError(t, db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT updated_at FROM %s WHERE id = $1", ident(parent)), id).Scan(&before))

	value, err = db.AtomicIncrement(ctx, parent, id, "views", 4)
	require.NoError(t, err)
	assert.EqualValues(t, 5, value)

	var after time.Time
	require.NoError(t, db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT updated_at FROM %s WHERE id = $1", ident(parent)), id).Scan(&after))
	assert.True(t, after.After(before))

	_, err = db.AtomicIncrement(ctx, parent, "00000000-0000-4000-8000-000000000000", "views", 1)
	assert.Equal(t, http.StatusNotFound, sqlerr.HandleError(err).(*errs.HTTPError).Status)
}

func TestUpdateWithValidation(t *testing.T) {
	db, parent, _ := testDB(t)
	ctx := context.Background()

	id := insertParent(t, db, parent, "Before")

	type row struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}

	updated, err := UpdateWithValidation[row](ctx, db, parent, id, NewUpdateSet().Add("name", "After"), "id::text AS id, name")
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)

	_, err = UpdateWithValidation[row](ctx, db, parent, "00000000-0000-4000-8000-000000000000", NewUpdateSet().Add("name", "x"), "id::text AS id, name")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestExecMulti(t *testing.T) {
	db, parent, child := testDB(t)
	ctx := context.Background()

	id := insertParent(t, db, parent, "Umrah Ramadhan")

	affected, err := db.ExecMulti(ctx, ReadCommitted, []Query{
		{SQL: fmt.Sprintf("INSERT INTO %s (parent_id, label) VALUES ($1, 'a'), ($1, 'b')", ident(child)), Args: []any{id}},
		{SQL: fmt.Sprintf("UPDATE %s SET views = views + 1 WHERE id = $1", ident(parent)), Args: []any{id}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, affected)

	_, err = db.ExecMulti(ctx, ReadCommitted, []Query{
		{SQL: fmt.Sprintf("INSERT INTO %s (parent_id, label) VALUES ($1, 'c')", ident(child)), Args: []any{id}},
		{SQL: fmt.Sprintf("INSERT INTO %s (parent_id, label) VALUES ($1, NULL)", ident(child)), Args: []any{id}},
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", ident(child))).Scan(&count))
	assert.Equal(t, 2, count)
}
