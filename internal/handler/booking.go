package handler

import (
	"time"

	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

// MaxParticipants caps a single booking.
const MaxParticipants = 50

type BookingHandler struct {
	Handler
	bookings *service.BookingService
}

func NewBookingHandler(s *server.Server, bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Handler: NewHandler(s), bookings: bookings}
}

type CreateBookingRequest struct {
	PackageID     string `json:"package_id"`
	DepartureDate string `json:"departure_date"`
	Participants  int    `json:"participants"`

	departure time.Time
}

func (r *CreateBookingRequest) Validate() error {
	var f validation.Fields
	r.PackageID = f.UUID("package_id", r.PackageID)
	r.departure = f.Date("departure_date", r.DepartureDate, false)
	_, err := validation.PositiveInt(r.Participants, 1, MaxParticipants)
	f.Add("participants", err)
	return f.Err()
}

func (h *BookingHandler) Create(c echo.Context, req *CreateBookingRequest) (Response, error) {
	booking, err := h.bookings.Create(c.Request().Context(), userID(c), service.CreateBookingInput{
		PackageID:     req.PackageID,
		DepartureDate: req.departure,
		Participants:  req.Participants,
	})
	if err != nil {
		return Response{}, err
	}
	return respond("Booking created", booking), nil
}

type ListBookingsRequest struct {
	model.PageQuery
}

func (r *ListBookingsRequest) Validate() error {
	return validation.Struct(r)
}

func (h *BookingHandler) List(c echo.Context, req *ListBookingsRequest) (Response, error) {
	page, err := h.bookings.List(c.Request().Context(), userID(c), req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Bookings retrieved", page), nil
}

func (h *BookingHandler) Get(c echo.Context, req *IDParam) (Response, error) {
	booking, err := h.bookings.Get(c.Request().Context(), userID(c), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Booking retrieved", booking), nil
}

func (h *BookingHandler) Cancel(c echo.Context, req *IDParam) (Response, error) {
	booking, err := h.bookings.Cancel(c.Request().Context(), userID(c), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Booking cancelled", booking), nil
}
