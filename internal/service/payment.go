package service

import (
	"context"
	"mime/multipart"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/media"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

type PaymentService struct {
	server   *server.Server
	bookings *repository.BookingRepository
	payments *repository.PaymentRepository
}

func NewPaymentService(s *server.Server, repos *repository.Repositories) *PaymentService {
	return &PaymentService{server: s, bookings: repos.Booking, payments: repos.Payment}
}

func (s *PaymentService) Get(ctx context.Context, userID, bookingID string) (model.PaymentDetail, error) {
	if err := s.checkOwner(ctx, userID, bookingID); err != nil {
		return model.PaymentDetail{}, err
	}
	return s.payments.Detail(ctx, bookingID)
}

// UploadProof stores a transfer receipt and moves the payment to pending
// until an admin confirms it.
func (s *PaymentService) UploadProof(ctx context.Context, userID, bookingID string, fh *multipart.FileHeader, method string) (model.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Payment{}, err
	}
	if booking.UserID != userID {
		return model.Payment{}, errBookingAccess
	}
	if booking.Status == model.BookingCancelled {
		return model.Payment{}, errs.NewBadRequestError("Booking has been cancelled", true, errs.Code("BOOKING_CANCELLED"), nil, nil)
	}

	payment, err := s.payments.GetByBooking(ctx, bookingID)
	if err != nil {
		return model.Payment{}, err
	}
	if payment.PaymentStatus == model.PaymentPaid {
		return model.Payment{}, errs.NewBadRequestError("Payment is already confirmed", true, errs.Code("PAYMENT_ALREADY_PAID"), nil, nil)
	}

	file, err := media.Read(fh, s.server.Config.Media.MaxImageBytes, media.ImageTypes...)
	if err != nil {
		return model.Payment{}, err
	}
	uploaded, err := s.server.Media.Upload(ctx, media.FolderPayments, file)
	if err != nil {
		return model.Payment{}, err
	}

	if method == "" {
		method = model.DefaultPaymentMethod
	}
	updated, err := s.payments.SetProof(ctx, payment.ID, uploaded.URL, method)
	if err != nil {
		return model.Payment{}, err
	}

	if s.server.Metrics != nil {
		s.server.Metrics.PaymentProofs.Inc()
	}
	return updated, nil
}

func (s *PaymentService) checkOwner(ctx context.Context, userID, bookingID string) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return errBookingAccess
	}
	return nil
}
