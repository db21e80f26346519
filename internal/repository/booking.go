package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const bookingColumns = `b.id, b.booking_code, b.user_id, b.package_id, p.name AS package_name, p.image_url,
	b.departure_date, b.participants, b.total_price, b.status, b.payment_status, b.created_at, b.updated_at`

const bookingFrom = `FROM bookings b JOIN packages p ON p.id = b.package_id`

type BookingRepository struct {
	server *server.Server
	q      database.Querier
}

func NewBookingRepository(s *server.Server) *BookingRepository {
	return &BookingRepository{server: s, q: s.DB.Pool}
}

func (r *BookingRepository) WithTx(tx pgx.Tx) *BookingRepository {
	return &BookingRepository{server: r.server, q: tx}
}

type CreateBookingParams struct {
	BookingCode   string
	UserID        string
	PackageID     string
	DepartureDate time.Time
	Participants  int
	TotalPrice    decimal.Decimal
}

func (r *BookingRepository) Create(ctx context.Context, p CreateBookingParams) (model.Booking, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO bookings (booking_code, user_id, package_id, departure_date, participants, total_price, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.BookingCode, p.UserID, p.PackageID, p.DepartureDate, p.Participants, p.TotalPrice,
		model.BookingPending, model.PaymentUnpaid).Scan(&id)
	if err != nil {
		return model.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (model.Booking, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bookingColumns+` `+bookingFrom+` WHERE b.id = $1`, id)
	return collectOne[model.Booking](rows, err, "bookings")
}

// GetForUpdate locks the booking row for the rest of the transaction.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id string) (model.Booking, error) {
	rows, err := r.q.Query(ctx, `SELECT `+bookingColumns+` `+bookingFrom+` WHERE b.id = $1 FOR UPDATE OF b`, id)
	return collectOne[model.Booking](rows, err, "bookings")
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string, page model.PageQuery) (model.Page[model.Booking], error) {
	page = page.Normalize()

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID)
	if err != nil {
		return model.Page[model.Booking]{}, err
	}

	rows, err := r.q.Query(ctx, `SELECT `+bookingColumns+` `+bookingFrom+`
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset())
	items, err := collectAll[model.Booking](rows, err, "bookings")
	if err != nil {
		return model.Page[model.Booking]{}, err
	}
	return model.Page[model.Booking]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *BookingRepository) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	return r.set(ctx, id, "status", status)
}

func (r *BookingRepository) SetPaymentStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	return r.set(ctx, id, "payment_status", status)
}

func (r *BookingRepository) set(ctx context.Context, id, column string, value any) error {
	sql, args, err := database.NewUpdateSet().Add(column, value).Build("bookings", id, "id")
	if err != nil {
		return err
	}
	var updated string
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&updated); err != nil {
		return rowErr(err, "bookings", "update booking")
	}
	return nil
}

const orderSelect = `
	SELECT b.id, b.booking_code, u.full_name AS customer_name, u.email AS customer_email,
		p.name AS package_name, b.departure_date, b.participants, b.total_price, b.status,
		b.payment_status, b.created_at
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN packages p ON p.id = b.package_id`

// ListOrders is the admin view over every booking.
func (r *BookingRepository) ListOrders(ctx context.Context, f model.OrderFilter, page model.PageQuery) (model.Page[model.Order], error) {
	page = page.Normalize()

	var w where
	if f.Status != "" {
		w.add("b.status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("(b.booking_code ILIKE ? OR u.full_name ILIKE ? OR u.email ILIKE ? OR p.name ILIKE ?)", likePattern(f.Search))
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN packages p ON p.id = b.package_id `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.Order]{}, err
	}

	sql := fmt.Sprintf(`%s %s ORDER BY b.created_at DESC LIMIT %s OFFSET %s`,
		orderSelect, w.String(), w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.Order](rows, err, "bookings")
	if err != nil {
		return model.Page[model.Order]{}, err
	}
	return model.Page[model.Order]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *BookingRepository) OrderStats(ctx context.Context) (model.OrderStats, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM bookings`)
	return collectOne[model.OrderStats](rows, err, "bookings")
}

type customer struct {
	Name  string  `db:"full_name"`
	Email string  `db:"email"`
	Phone *string `db:"phone_number"`
}

// Customer returns the contact fields of the booking's user.
func (r *BookingRepository) Customer(ctx context.Context, bookingID string) (name, email string, phone *string, err error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.full_name, u.email, u.phone_number
		FROM bookings b JOIN users u ON u.id = b.user_id
		WHERE b.id = $1`, bookingID)
	c, err := collectOne[customer](rows, err, "bookings")
	if err != nil {
		return "", "", nil, err
	}
	return c.Name, c.Email, c.Phone, nil
}
