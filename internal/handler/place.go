package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

// PlaceHandler serves destinations, locations and testimonials.
type PlaceHandler struct {
	Handler
	places *service.PlaceService
}

func NewPlaceHandler(s *server.Server, places *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{Handler: NewHandler(s), places: places}
}

type SearchDestinationsRequest struct {
	model.PageQuery
	Search   string `query:"search" validate:"max=100"`
	Category string `query:"category" validate:"max=100"`
	Halal    string `query:"halal"`

	halal *bool
}

func (r *SearchDestinationsRequest) Validate() error {
	var f validation.Fields
	r.halal = optionalBool(&f, "halal", r.Halal)
	return check(r, &f)
}

func (h *PlaceHandler) SearchDestinations(c echo.Context, req *SearchDestinationsRequest) (Response, error) {
	page, err := h.places.SearchDestinations(c.Request().Context(), model.DestinationFilter{
		Search:   req.Search,
		Category: req.Category,
		Halal:    req.halal,
	}, req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Destinations retrieved", page), nil
}

func (h *PlaceHandler) Destination(c echo.Context, req *IDParam) (Response, error) {
	destination, err := h.places.Destination(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Destination retrieved", destination), nil
}

type LocationsRequest struct {
	Region string `query:"region" validate:"max=100"`
}

func (r *LocationsRequest) Validate() error {
	return validation.Struct(r)
}

func (h *PlaceHandler) Locations(c echo.Context, req *LocationsRequest) (Response, error) {
	items, err := h.places.Locations(c.Request().Context(), req.Region)
	if err != nil {
		return Response{}, err
	}
	return list("Locations retrieved", items), nil
}

type TestimonialsRequest struct {
	Featured string `query:"featured"`
	Limit    int    `query:"limit" validate:"omitempty,min=1"`

	featured *bool
}

func (r *TestimonialsRequest) Validate() error {
	var f validation.Fields
	r.featured = optionalBool(&f, "featured", r.Featured)
	return check(r, &f)
}

func (h *PlaceHandler) Testimonials(c echo.Context, req *TestimonialsRequest) (Response, error) {
	items, err := h.places.Testimonials(c.Request().Context(), req.featured, req.Limit)
	if err != nil {
		return Response{}, err
	}
	return list("Testimonials retrieved", items), nil
}
