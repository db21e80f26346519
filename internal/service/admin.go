package service

import (
	"context"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/utils"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const (
	TopCustomersLimit  = 5
	UpcomingTripsLimit = 5
)

// AdminService backs the admin API: reporting, user and catalogue
// management, order handling and community moderation.
type AdminService struct {
	server   *server.Server
	repos    *repository.Repositories
	bookings *BookingService
	now      func() time.Time
}

func NewAdminService(s *server.Server, repos *repository.Repositories) *AdminService {
	return &AdminService{
		server:   s,
		repos:    repos,
		bookings: NewBookingService(s, repos),
		now:      time.Now,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	admin := s.repos.Admin

	totals, err := admin.DashboardTotals(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	sales, err := admin.MonthlySales(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	top, err := admin.TopCustomers(ctx, TopCustomersLimit)
	if err != nil {
		return model.DashboardStats{}, err
	}
	upcoming, err := admin.UpcomingTrips(ctx, UpcomingTripsLimit)
	if err != nil {
		return model.DashboardStats{}, err
	}

	return model.DashboardStats{
		DashboardTotals: totals,
		MonthlySales:    sales,
		TopCustomers:    top,
		UpcomingTrips:   upcoming,
	}, nil
}

// ---- users ----

func (s *AdminService) Users(ctx context.Context, search string, page model.PageQuery) (model.Page[model.UserSummary], error) {
	return s.repos.User.List(ctx, search, page)
}

func (s *AdminService) User(ctx context.Context, id string) (model.User, error) {
	return s.repos.User.GetByID(ctx, id)
}

type CreateUserInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber *string
	Role        model.Role
}

func (s *AdminService) CreateUser(ctx context.Context, in CreateUserInput) (model.User, error) {
	taken, err := s.repos.User.EmailTaken(ctx, in.Email, "")
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, errEmailTaken
	}

	hash, err := hashPassword(s.server.Config.Auth.BcryptCost, in.Password)
	if err != nil {
		return model.User{}, err
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}

	return s.repos.User.Create(ctx, repository.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.Name,
		PhoneNumber:  in.PhoneNumber,
		Role:         in.Role,
	})
}

type UpdateUserInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Role        *model.Role
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (model.User, error) {
	if in.Email != nil {
		taken, err := s.repos.User.EmailTaken(ctx, *in.Email, id)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, errEmailTaken
		}
	}

	set := database.NewUpdateSet()
	database.SetIfNotNil(set, "full_name", in.Name)
	database.SetIfNotNil(set, "email", in.Email)
	database.SetIfNotNil(set, "phone_number", in.PhoneNumber)
	database.SetIfNotNil(set, "role", in.Role)
	return s.repos.User.Update(ctx, id, set)
}

// DeleteUser refuses while the user still has bookings, and refuses to
// delete the caller's own account.
func (s *AdminService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if actor.UserID == id {
		return errs.NewBadRequestError("You cannot delete your own account", true, errs.Code("CANNOT_DELETE_SELF"), nil, nil)
	}
	return s.server.DB.SafeDelete(ctx, "users", id, database.Dependency{
		Table:      "bookings",
		ForeignKey: "user_id",
		Message:    "Cannot delete a user who has bookings",
	})
}

// ---- packages ----

// Packages lists every package, inactive ones included.
func (s *AdminService) Packages(ctx context.Context, f model.PackageFilter, page model.PageQuery) (model.Page[model.Package], error) {
	f.ActiveOnly = false
	result, err := s.repos.Package.List(ctx, f, page)
	if err != nil {
		return result, err
	}
	labelDurations(result.Items)
	return result, nil
}

func (s *AdminService) Package(ctx context.Context, id string) (model.PackageDetail, error) {
	pkg, err := s.repos.Package.GetByID(ctx, id, false)
	if err != nil {
		return model.PackageDetail{}, err
	}

	schedule, err := s.repos.Package.Schedule(ctx, id, nil)
	if err != nil {
		return model.PackageDetail{}, err
	}
	pkg.Duration = utils.DurationLabel(pkg.DurationDays)
	return model.PackageDetail{Package: pkg, Schedule: schedule}, nil
}

func (s *AdminService) CreatePackage(ctx context.Context, in repository.CreatePackageParams) (model.Package, error) {
	pkg, err := s.repos.Package.Create(ctx, in)
	if err != nil {
		return model.Package{}, err
	}
	pkg.Duration = utils.DurationLabel(pkg.DurationDays)
	return pkg, nil
}

func (s *AdminService) UpdatePackage(ctx context.Context, id string, set *database.UpdateSet) (model.Package, error) {
	pkg, err := database.InTx(ctx, s.server.DB, database.ReadCommitted, func(tx pgx.Tx) (model.Package, error) {
		return s.repos.Package.WithTx(tx).Update(ctx, id, set)
	})
	if err != nil {
		return model.Package{}, err
	}
	pkg.Duration = utils.DurationLabel(pkg.DurationDays)
	return pkg, nil
}

func (s *AdminService) DeletePackage(ctx context.Context, id string) error {
	return s.server.DB.SafeDelete(ctx, "packages", id, database.Dependency{
		Table:      "bookings",
		ForeignKey: "package_id",
		Message:    "Cannot delete a package that has bookings, deactivate it instead",
	})
}

// ---- orders ----

type OrdersPage struct {
	model.Page[model.Order]
	Stats model.OrderStats
}

func (s *AdminService) Orders(ctx context.Context, f model.OrderFilter, page model.PageQuery) (OrdersPage, error) {
	orders, err := s.repos.Booking.ListOrders(ctx, f, page)
	if err != nil {
		return OrdersPage{}, err
	}
	stats, err := s.repos.Booking.OrderStats(ctx)
	if err != nil {
		return OrdersPage{}, err
	}
	return OrdersPage{Page: orders, Stats: stats}, nil
}

// Order returns any booking with its customer and payment.
func (s *AdminService) Order(ctx context.Context, id string) (model.BookingDetail, error) {
	booking, err := s.repos.Booking.GetByID(ctx, id)
	if err != nil {
		return model.BookingDetail{}, err
	}
	detail, err := s.bookings.withPayment(ctx, booking)
	if err != nil {
		return model.BookingDetail{}, err
	}

	name, email, phone, err := s.repos.Booking.Customer(ctx, id)
	if err != nil {
		return model.BookingDetail{}, err
	}
	detail.CustomerName, detail.CustomerEmail, detail.CustomerPhone = &name, &email, phone
	return detail, nil
}

// UpdateOrderStatus moves a booking between statuses. Cancelling returns
// the seats to the package; a cancelled booking cannot be reopened.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, id string, status model.BookingStatus) (model.Booking, error) {
	return database.InTx(ctx, s.server.DB, database.ReadCommitted, func(tx pgx.Tx) (model.Booking, error) {
		bookings := s.repos.Booking.WithTx(tx)

		booking, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			return model.Booking{}, err
		}
		if booking.Status == status {
			return booking, nil
		}
		if booking.Status == model.BookingCancelled {
			return model.Booking{}, errs.NewBadRequestError("A cancelled booking cannot be reopened", true, errs.Code("BOOKING_CANCELLED"), nil, nil)
		}

		if err := bookings.SetStatus(ctx, id, status); err != nil {
			return model.Booking{}, err
		}
		if status == model.BookingCancelled {
			if err := s.repos.Package.WithTx(tx).AdjustQuota(ctx, booking.PackageID, booking.Participants); err != nil {
				return model.Booking{}, err
			}
		}
		return bookings.GetByID(ctx, id)
	})
}

// UpdatePaymentStatus records a manual payment decision on both the
// booking and its payment row in one transaction.
func (s *AdminService) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) (model.BookingDetail, error) {
	now := s.now()

	return database.InTx(ctx, s.server.DB, database.ReadCommitted, func(tx pgx.Tx) (model.BookingDetail, error) {
		bookings := s.repos.Booking.WithTx(tx)
		payments := s.repos.Payment.WithTx(tx)

		if _, err := bookings.GetForUpdate(ctx, id); err != nil {
			return model.BookingDetail{}, err
		}
		if err := bookings.SetPaymentStatus(ctx, id, status); err != nil {
			return model.BookingDetail{}, err
		}

		detail := model.BookingDetail{}
		payment, err := payments.GetByBooking(ctx, id)
		switch {
		case err == nil:
			payment, err = payments.SetStatus(ctx, payment.ID, status, now)
			if err != nil {
				return model.BookingDetail{}, err
			}
			detail.Payment = &payment
		case !sqlerr.IsNotFound(err):
			return model.BookingDetail{}, err
		}

		detail.Booking, err = bookings.GetByID(ctx, id)
		if err != nil {
			return model.BookingDetail{}, err
		}
		return detail, nil
	})
}

// ---- community ----

func (s *AdminService) CommunityPosts(ctx context.Context, month, status string, page model.PageQuery) (model.Page[model.CommunityPost], error) {
	return s.repos.Admin.CommunityPosts(ctx, month, status, page)
}

func (s *AdminService) CommunityPost(ctx context.Context, id string) (model.CommunityPost, error) {
	return s.repos.Admin.CommunityPost(ctx, id)
}

func (s *AdminService) ModerateCommunityPost(ctx context.Context, id string, status model.CommunityPostStatus) (model.CommunityPost, error) {
	return s.repos.Admin.ModerateCommunityPost(ctx, id, status)
}

func (s *AdminService) DeleteCommunityPost(ctx context.Context, id string) error {
	return s.repos.Admin.DeleteCommunityPost(ctx, id)
}
