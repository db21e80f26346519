package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)))
}

func TestConstructorsSetStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("no token", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("admins only", true), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found custom code", NewNotFoundError("gone", true, Code("BOOKING_NOT_FOUND")), http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"conflict", NewConflictError("in use", true, nil), http.StatusConflict, "CONFLICT"},
		{"too large", NewPayloadTooLargeError("too big"), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"rate limited", NewTooManyRequestsError("slow down", 30), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"unavailable", NewServiceUnavailableError("uploads disabled"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestTooManyRequestsCarriesRetryAction(t *testing.T) {
	err := NewTooManyRequestsError("slow down", 42)
	require.NotNil(t, err.Action)
	assert.Equal(t, ActionTypeRetry, err.Action.Type)
	assert.Equal(t, "42", err.Action.Value)
}

func TestHTTPErrorMatchesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading booking: %w", NewNotFoundError("Booking not found", true, nil))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	base := NewFieldValidationError("email", "is required")
	copied := base.WithMessage("Email missing")

	assert.Equal(t, "Validation failed", base.Message)
	assert.Equal(t, "Email missing", copied.Message)
	assert.Equal(t, base.Errors, copied.Errors)
}
