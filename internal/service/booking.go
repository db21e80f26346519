package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/email"
	"github.com/deppfellow/muslimah-travel/internal/lib/job"
	"github.com/deppfellow/muslimah-travel/internal/lib/utils"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type BookingService struct {
	server   *server.Server
	bookings *repository.BookingRepository
	payments *repository.PaymentRepository
	packages *repository.PackageRepository
	users    *repository.UserRepository
	now      func() time.Time
}

func NewBookingService(s *server.Server, repos *repository.Repositories) *BookingService {
	return &BookingService{
		server:   s,
		bookings: repos.Booking,
		payments: repos.Payment,
		packages: repos.Package,
		users:    repos.User,
		now:      time.Now,
	}
}

type CreateBookingInput struct {
	PackageID     string
	DepartureDate time.Time
	Participants  int
}

var errBookingAccess = errs.NewForbiddenError("You do not have access to this booking", true)

// Create books seats on a package. The package row stays locked from the
// quota check until the quota is decremented, so concurrent bookings
// cannot oversell it.
func (s *BookingService) Create(ctx context.Context, userID string, in CreateBookingInput) (model.BookingDetail, error) {
	now := s.now()

	var pkgName string
	detail, err := database.InTx(ctx, s.server.DB, database.ReadCommitted, func(tx pgx.Tx) (model.BookingDetail, error) {
		packages := s.packages.WithTx(tx)

		pkg, err := packages.LockForBooking(ctx, in.PackageID)
		if err != nil {
			return model.BookingDetail{}, err
		}
		if in.Participants > pkg.Quota {
			return model.BookingDetail{}, errs.NewBadRequestError(
				fmt.Sprintf("Only %d seats left for this package", pkg.Quota),
				true, errs.Code("INSUFFICIENT_QUOTA"), nil, nil)
		}
		pkgName = pkg.Name

		code, err := utils.BookingCode(now)
		if err != nil {
			return model.BookingDetail{}, err
		}

		total := pkg.Price.Mul(decimal.NewFromInt(int64(in.Participants)))
		booking, err := s.bookings.WithTx(tx).Create(ctx, repository.CreateBookingParams{
			BookingCode:   code,
			UserID:        userID,
			PackageID:     pkg.ID,
			DepartureDate: in.DepartureDate,
			Participants:  in.Participants,
			TotalPrice:    total,
		})
		if err != nil {
			return model.BookingDetail{}, err
		}

		payment, err := s.payments.WithTx(tx).Create(ctx, booking.ID, total, decimal.Zero, now.Add(model.PaymentWindow))
		if err != nil {
			return model.BookingDetail{}, err
		}

		if err := packages.AdjustQuota(ctx, pkg.ID, -in.Participants); err != nil {
			return model.BookingDetail{}, err
		}

		return model.BookingDetail{Booking: booking, Payment: &payment}, nil
	})
	if err != nil {
		return model.BookingDetail{}, err
	}

	if s.server.Metrics != nil {
		s.server.Metrics.BookingsCreated.Inc()
	}
	s.notifyCreated(ctx, userID, pkgName, detail)

	return detail, nil
}

func (s *BookingService) notifyCreated(ctx context.Context, userID, pkgName string, d model.BookingDetail) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		loggerFrom(ctx, s.server.Logger).Warn().Err(err).Str("booking_id", d.ID).Msg("skipping booking email")
		return
	}

	deadline := ""
	if d.Payment != nil && d.Payment.PaymentDeadline != nil {
		deadline = d.Payment.PaymentDeadline.Format("02 Jan 2006 15:04")
	}

	task, err := job.NewBookingCreatedTask(user.Email, email.BookingEmail{
		Name:            user.FullName,
		BookingCode:     d.BookingCode,
		PackageName:     pkgName,
		DepartureDate:   d.DepartureDate.Format("02 Jan 2006"),
		Participants:    d.Participants,
		TotalPrice:      utils.FormatRupiah(d.TotalPrice),
		PaymentDeadline: deadline,
	})
	s.server.Job.Enqueue(ctx, task, err)
}

func (s *BookingService) List(ctx context.Context, userID string, page model.PageQuery) (model.Page[model.Booking], error) {
	return s.bookings.ListByUser(ctx, userID, page)
}

// Get returns the caller's booking with its payment.
func (s *BookingService) Get(ctx context.Context, userID, id string) (model.BookingDetail, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return model.BookingDetail{}, err
	}
	if booking.UserID != userID {
		return model.BookingDetail{}, errBookingAccess
	}
	return s.withPayment(ctx, booking)
}

func (s *BookingService) withPayment(ctx context.Context, booking model.Booking) (model.BookingDetail, error) {
	detail := model.BookingDetail{Booking: booking}
	payment, err := s.payments.GetByBooking(ctx, booking.ID)
	switch {
	case err == nil:
		detail.Payment = &payment
	case !sqlerr.IsNotFound(err):
		return model.BookingDetail{}, err
	}
	return detail, nil
}

// Cancel cancels a pending booking and returns its seats to the package
// in the same transaction.
func (s *BookingService) Cancel(ctx context.Context, userID, id string) (model.Booking, error) {
	booking, err := database.InTx(ctx, s.server.DB, database.ReadCommitted, func(tx pgx.Tx) (model.Booking, error) {
		bookings := s.bookings.WithTx(tx)

		booking, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			return model.Booking{}, err
		}
		if booking.UserID != userID {
			return model.Booking{}, errBookingAccess
		}
		if booking.Status != model.BookingPending {
			return model.Booking{}, errs.NewBadRequestError(
				fmt.Sprintf("Only pending bookings can be cancelled, this one is %s", booking.Status),
				true, errs.Code("BOOKING_NOT_CANCELLABLE"), nil, nil)
		}

		if err := bookings.SetStatus(ctx, id, model.BookingCancelled); err != nil {
			return model.Booking{}, err
		}
		if err := s.packages.WithTx(tx).AdjustQuota(ctx, booking.PackageID, booking.Participants); err != nil {
			return model.Booking{}, err
		}
		return bookings.GetByID(ctx, id)
	})
	if err != nil {
		return model.Booking{}, err
	}

	if s.server.Metrics != nil {
		s.server.Metrics.BookingsCancelled.Inc()
	}
	return booking, nil
}
