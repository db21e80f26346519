package database

import (
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSetBuild(t *testing.T) {
	name := "Umrah Plus Turki"
	var skipped *string

	set := NewUpdateSet().Add("name", name).Add("quota", 40)
	SetIfNotNil(set, "image_url", skipped)
	SetIfNotNil(set, "description", &name)

	sql, args, err := set.Build("packages", "pkg-1", "id, name")
	require.NoError(t, err)

	assert.Equal(t,
		`UPDATE "packages" SET updated_at = CURRENT_TIMESTAMP, "name" = $1, "quota" = $2, "description" = $3 WHERE id = $4 RETURNING id, name`,
		sql)
	assert.Equal(t, []any{name, 40, name, "pkg-1"}, args)
}

func TestUpdateSetAddReplacesDuplicateColumn(t *testing.T) {
	set := NewUpdateSet().Add("rating", 3).Add("rating", 5)

	assert.Equal(t, 1, set.Len())
	_, args, err := set.Build("reviews", 7, "")
	require.NoError(t, err)
	assert.Equal(t, []any{5, 7}, args)
}

func TestUpdateSetBuildEmpty(t *testing.T) {
	_, _, err := NewUpdateSet().Build("users", "u-1", "*")
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "No fields to update", httpErr.Message)
}

func TestUpdateSetDefaultsReturningToStar(t *testing.T) {
	sql, _, err := NewUpdateSet().Add("status", "approved").Build("community_posts", 1, "")
	require.NoError(t, err)
	assert.Contains(t, sql, "RETURNING *")
}

func TestIdentQuotesNames(t *testing.T) {
	assert.Equal(t, `"review_media"`, ident("review_media"))
	assert.Equal(t, `"weird""name"`, ident(`weird"name`))
}

func TestInsertStatement(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO "review_media" ("review_id", "media_url", "media_type") VALUES ($1, $2, $3) RETURNING id::text`,
		insertStatement("review_media", []string{"review_id", "media_url", "media_type"}))
}

func TestIncrementStatementTouchesUpdatedAt(t *testing.T) {
	assert.Equal(t,
		`UPDATE "articles" SET "views" = "views" + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING "views"`,
		incrementStatement("articles", "views"))
}
