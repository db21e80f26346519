package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewID = "3f1c2a9e-7b4d-4c1a-9e2f-8a6b5c4d3e2f"

func strPtr(s string) *string { return &s }

// fieldNames lists the fields named by a Validate failure.
func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var custom validation.CustomValidationErrors
	require.True(t, errors.As(err, &custom), "expected field errors, got %v", err)

	names := make([]string, 0, len(custom))
	for _, e := range custom {
		names = append(names, e.Field)
	}
	return names
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestNewRequestAllocatesFreshValue(t *testing.T) {
	prototype := &IDParam{ID: "stale"}

	first := newRequest(prototype)
	second := newRequest(prototype)

	assert.NotSame(t, prototype, first)
	assert.NotSame(t, first, second)
	assert.Empty(t, first.ID)
}

func TestHandleBindsPathAndBody(t *testing.T) {
	c, rec := newJSONContext(http.MethodPut, "/reviews/"+reviewID, `{"rating": 4, "id": "ignored"}`)
	c.SetPath("/reviews/:id")
	c.SetParamNames("id")
	c.SetParamValues(reviewID)

	var got *UpdateReviewRequest
	endpoint := Handle(NewHandler(nil), func(c echo.Context, req *UpdateReviewRequest) (Response, error) {
		got = req
		return respond("Review updated", nil), nil
	}, http.StatusOK, &UpdateReviewRequest{})

	require.NoError(t, endpoint(c))
	require.NotNil(t, got)
	assert.Equal(t, reviewID, got.ID)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4, *got.Rating)
	assert.Nil(t, got.Comment)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Review updated"}`, rec.Body.String())
}

func TestHandleRejectsInvalidRequest(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/bookings",
		`{"package_id": "not-a-uuid", "departure_date": "2001-01-01", "participants": 0}`)

	called := false
	endpoint := Handle(NewHandler(nil), func(c echo.Context, req *CreateBookingRequest) (Response, error) {
		called = true
		return Response{}, nil
	}, http.StatusCreated, &CreateBookingRequest{})

	err := endpoint(c)
	require.Error(t, err)
	assert.False(t, called)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	fields := make([]string, 0, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"package_id", "departure_date", "participants"}, fields)
}

func TestHandleMalformedBody(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/wishlists", `{"tour_package_id":`)

	endpoint := Handle(NewHandler(nil), func(c echo.Context, req *AddWishlistRequest) (Response, error) {
		return Response{}, nil
	}, http.StatusCreated, &AddWishlistRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(endpoint(c), &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "INVALID_REQUEST_BODY", httpErr.Code)
}

func TestCreateBookingRequestValidate(t *testing.T) {
	future := time.Now().AddDate(0, 1, 0).Format(validation.DateLayout)
	packageID := "9b2d7c1e-5a4f-4e3b-8c6d-1f0a2b3c4d5e"

	tests := []struct {
		name   string
		req    CreateBookingRequest
		fields []string
	}{
		{
			name: "valid",
			req:  CreateBookingRequest{PackageID: packageID, DepartureDate: future, Participants: 2},
		},
		{
			name:   "past departure",
			req:    CreateBookingRequest{PackageID: packageID, DepartureDate: "2020-05-01", Participants: 2},
			fields: []string{"departure_date"},
		},
		{
			name:   "too many participants",
			req:    CreateBookingRequest{PackageID: packageID, DepartureDate: future, Participants: MaxParticipants + 1},
			fields: []string{"participants"},
		},
		{
			name:   "missing package",
			req:    CreateBookingRequest{DepartureDate: future, Participants: 1},
			fields: []string{"package_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				require.NoError(t, err)
				assert.Equal(t, future, tt.req.departure.Format(validation.DateLayout))
				return
			}
			assert.ElementsMatch(t, tt.fields, fieldNames(t, err))
		})
	}
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		req := UpdateProfileRequest{}
		assert.Equal(t, []string{"request"}, fieldNames(t, req.Validate()))
	})

	t.Run("normalises values", func(t *testing.T) {
		req := UpdateProfileRequest{
			Name:        strPtr("  Siti Aisyah "),
			Email:       strPtr(" Siti@Example.COM "),
			PhoneNumber: strPtr("+62 812-3456-7890"),
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Siti Aisyah", *req.Name)
		assert.Equal(t, "siti@example.com", *req.Email)
		assert.Equal(t, "081234567890", *req.PhoneNumber)
	})

	t.Run("empty phone when sent", func(t *testing.T) {
		req := UpdateProfileRequest{PhoneNumber: strPtr("")}
		assert.Equal(t, []string{"phone_number"}, fieldNames(t, req.Validate()))
	})
}

func TestListPackagesRequestValidate(t *testing.T) {
	t.Run("min above max", func(t *testing.T) {
		req := ListPackagesRequest{MinPrice: "35000000", MaxPrice: "20000000"}
		assert.Equal(t, []string{"min_price"}, fieldNames(t, req.Validate()))
	})

	t.Run("bad flag and destination", func(t *testing.T) {
		req := ListPackagesRequest{Featured: "maybe", Destination: "bali"}
		assert.ElementsMatch(t, []string{"featured", "destination"}, fieldNames(t, req.Validate()))
	})

	t.Run("builds filter", func(t *testing.T) {
		req := ListPackagesRequest{Featured: "true", MinPrice: "1000000", MaxPrice: "50000000.50", Search: "umrah"}
		require.NoError(t, req.Validate())
		require.NotNil(t, req.filter.Featured)
		assert.True(t, *req.filter.Featured)
		assert.Equal(t, "1000000", req.filter.MinPrice.String())
		assert.Equal(t, "50000000.5", req.filter.MaxPrice.String())
		assert.Equal(t, "umrah", req.filter.Search)
	})
}

func TestCreateArticleRequestSlug(t *testing.T) {
	t.Run("normalised", func(t *testing.T) {
		req := CreateArticleRequest{ArticleRequest{
			Title:   strPtr("Panduan Umrah Pertama"),
			Content: strPtr("<h2>Persiapan</h2><p>Paspor dan visa.</p>"),
			Slug:    strPtr("  Panduan-Umrah-2025 "),
		}}
		require.NoError(t, req.Validate())
		assert.Equal(t, "panduan-umrah-2025", *req.Slug)
	})

	t.Run("spaces rejected", func(t *testing.T) {
		req := CreateArticleRequest{ArticleRequest{
			Title:   strPtr("Panduan Umrah Pertama"),
			Content: strPtr("isi"),
			Slug:    strPtr("panduan umrah"),
		}}
		assert.Equal(t, []string{"slug"}, fieldNames(t, req.Validate()))
	})

	t.Run("title and content required", func(t *testing.T) {
		req := CreateArticleRequest{}
		assert.ElementsMatch(t, []string{"title", "content"}, fieldNames(t, req.Validate()))
	})
}

func TestPaginatedNeverNull(t *testing.T) {
	page := model.Page[string]{Pagination: model.NewPagination(model.PageQuery{}, 0)}

	body, err := json.Marshal(paginated("Packages retrieved", page))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, []any{}, decoded["data"])

	pagination, ok := decoded["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, model.DefaultPage, pagination["page"])
	assert.EqualValues(t, 0, pagination["total_items"])
}

func TestListNeverNull(t *testing.T) {
	body, err := json.Marshal(list[string]("Categories retrieved", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Categories retrieved","data":[]}`, string(body))
}
