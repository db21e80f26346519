package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	Handler
	payments *service.PaymentService
}

func NewPaymentHandler(s *server.Server, payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Handler: NewHandler(s), payments: payments}
}

type BookingIDParam struct {
	BookingID string `param:"booking_id" json:"-"`
}

func (r *BookingIDParam) Validate() error {
	var f validation.Fields
	r.BookingID = f.UUID("booking_id", r.BookingID)
	return f.Err()
}

func (h *PaymentHandler) Get(c echo.Context, req *BookingIDParam) (Response, error) {
	payment, err := h.payments.Get(c.Request().Context(), userID(c), req.BookingID)
	if err != nil {
		return Response{}, err
	}
	return respond("Payment retrieved", payment), nil
}

// UploadProofRequest is multipart: payment_proof is the file and
// payment_method a plain form field.
type UploadProofRequest struct {
	BookingIDParam
	PaymentMethod string `form:"payment_method" validate:"omitempty,max=50"`
}

func (r *UploadProofRequest) Validate() error {
	if err := r.BookingIDParam.Validate(); err != nil {
		return err
	}
	return validation.Struct(r)
}

func (h *PaymentHandler) UploadProof(c echo.Context, req *UploadProofRequest) (Response, error) {
	fh, err := formFile(c, "payment_proof")
	if err != nil {
		return Response{}, err
	}
	payment, err := h.payments.UploadProof(c.Request().Context(), userID(c), req.BookingID, fh, req.PaymentMethod)
	if err != nil {
		return Response{}, err
	}
	return respond("Payment proof uploaded", payment), nil
}
