package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

const MaxReviewComment = 2000

type ReviewHandler struct {
	Handler
	reviews *service.ReviewService
}

func NewReviewHandler(s *server.Server, reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Handler: NewHandler(s), reviews: reviews}
}

type ListReviewsRequest struct {
	model.PageQuery
}

func (r *ListReviewsRequest) Validate() error {
	return validation.Struct(r)
}

func (h *ReviewHandler) List(c echo.Context, req *ListReviewsRequest) (Response, error) {
	page, err := h.reviews.List(c.Request().Context(), userID(c), req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Reviews retrieved", page), nil
}

type CreateReviewRequest struct {
	BookingID string  `json:"booking_id"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment"`
}

func (r *CreateReviewRequest) Validate() error {
	var f validation.Fields
	r.BookingID = f.UUID("booking_id", r.BookingID)
	optionalString(&f, "comment", &r.Comment, 1, MaxReviewComment)
	return check(r, &f)
}

func (h *ReviewHandler) Create(c echo.Context, req *CreateReviewRequest) (Response, error) {
	review, err := h.reviews.Create(c.Request().Context(), userID(c), service.CreateReviewInput{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return Response{}, err
	}
	return respond("Review submitted and awaiting moderation", review), nil
}

type UpdateReviewRequest struct {
	IDParam
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

func (r *UpdateReviewRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	atLeastOne(&f, r.Rating != nil, r.Comment != nil)
	optionalString(&f, "comment", &r.Comment, 1, MaxReviewComment)
	return check(r, &f)
}

func (h *ReviewHandler) Update(c echo.Context, req *UpdateReviewRequest) (Response, error) {
	review, err := h.reviews.Update(c.Request().Context(), userID(c), req.ID, req.Rating, req.Comment)
	if err != nil {
		return Response{}, err
	}
	return respond("Review updated", review), nil
}

func (h *ReviewHandler) Delete(c echo.Context, req *IDParam) (Response, error) {
	if err := h.reviews.Delete(c.Request().Context(), userID(c), req.ID); err != nil {
		return Response{}, err
	}
	return respond("Review deleted", nil), nil
}

// AddMedia takes every file sent under the multipart field "media".
func (h *ReviewHandler) AddMedia(c echo.Context, req *IDParam) (Response, error) {
	files, err := formFiles(c, "media")
	if err != nil {
		return Response{}, err
	}
	review, err := h.reviews.AddMedia(c.Request().Context(), userID(c), req.ID, files)
	if err != nil {
		return Response{}, err
	}
	return respond("Review media uploaded", review), nil
}
