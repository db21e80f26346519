package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,min=2"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,idphone"`
	Price       string `json:"price" validate:"omitempty,price"`
}

func (r *registerRequest) Validate() error {
	return Struct(r)
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateOK(t *testing.T) {
	req := &registerRequest{}
	err := BindAndValidate(newContext(`{"email":"a@b.co","name":"Aisyah","phone_number":"+6281234567890","price":"100.50"}`), req)
	require.NoError(t, err)
	assert.Equal(t, "Aisyah", req.Name)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"email":"nope","phone_number":"123","price":"1.234"}`), &registerRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must be a valid Indonesian phone number", byField["phone_number"])
	assert.Equal(t, "must be a valid price", byField["price"])
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	err := BindAndValidate(newContext(`{"email":`), &registerRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "INVALID_REQUEST_BODY", httpErr.Code)
	assert.NotEmpty(t, httpErr.Message)
}
