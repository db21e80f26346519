package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A User with this Email already exists", httpErr.Message)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	err := HandleError(fmt.Errorf("insert wishlist: %w", &pgconn.PgError{
		Code:       "23503",
		TableName:  "wishlists",
		ColumnName: "package_id",
	}))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, "WISHLIST_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Package does not exist", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "bookings",
		ColumnName: "departure_date",
	}))

	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "departure_date", httpErr.Errors[0].Field)
	assert.Equal(t, "The Departure Date is required", httpErr.Message)
}

func TestHandleErrorSerializationFailure(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{Code: "40001"}))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestHandleErrorNoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(NotFound("bookings")))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Booking not found", httpErr.Message)
	assert.Equal(t, "BOOKING_NOT_FOUND", httpErr.Code)

	httpErr = asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("not yours", true)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "slug", extractColumnForUniqueViolation("unique_articles_slug"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk_users"))
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23505"})))
	assert.Equal(t, CheckViolation, ErrCode(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23514"})))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}
