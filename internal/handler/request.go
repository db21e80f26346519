package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/middleware"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// check runs the struct tags first and the field helpers second.
func check(r any, f *validation.Fields) error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return f.Err()
}

// optionalString normalises an optional text field in place: whitespace
// is trimmed and length bounds apply when the field was sent.
func optionalString(f *validation.Fields, field string, v **string, min, max int) {
	if *v == nil {
		return
	}
	out, err := validation.String(**v, min, max, true)
	f.Add(field, err)
	*v = &out
}

// optionalPhone treats an empty phone number as "not given".
func optionalPhone(f *validation.Fields, field string, v **string) {
	if *v == nil {
		return
	}
	out := f.Phone(field, **v, false)
	if out == "" {
		*v = nil
		return
	}
	*v = &out
}

func atLeastOne(f *validation.Fields, set ...bool) {
	for _, s := range set {
		if s {
			return
		}
	}
	f.Add("request", errNoFields)
}

var (
	errNoFields    = errors.New("at least one field must be provided")
	errMinAboveMax = errors.New("must not exceed max_price")
)

func userID(c echo.Context) string {
	return middleware.GetUserID(c)
}

func actor(c echo.Context) service.Actor {
	return service.Actor{UserID: middleware.GetUserID(c), Role: middleware.GetUserRole(c)}
}

// formFile returns the uploaded file under field or a 400 naming it.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, errs.NewFieldValidationError(field, "file is required")
		}
		return nil, errs.NewBadRequestError("Invalid multipart form", true, errs.Code("INVALID_REQUEST_BODY"), nil, nil)
	}
	return fh, nil
}

// formFiles returns every file uploaded under field.
func formFiles(c echo.Context, field string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errs.NewFieldValidationError(field, "at least one file is required")
	}
	return form.File[field], nil
}

// optionalBool parses a query flag; empty means "not given".
func optionalBool(f *validation.Fields, field, v string) *bool {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		f.Add(field, errors.New("must be true or false"))
		return nil
	}
	return &b
}

// optionalPrice parses a decimal query value; empty means "not given".
func optionalPrice(f *validation.Fields, field, v string) *decimal.Decimal {
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		f.Add(field, errors.New("must be a number"))
		return nil
	}
	if _, err := validation.Price(d); err != nil {
		f.Add(field, err)
		return nil
	}
	return &d
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
