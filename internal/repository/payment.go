package repository

import (
	"context"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, booking_id, base_price, additional_fees, total_amount, payment_status,
	payment_method, payment_proof_url, payment_deadline, paid_at, created_at, updated_at`

type PaymentRepository struct {
	server *server.Server
	q      database.Querier
}

func NewPaymentRepository(s *server.Server) *PaymentRepository {
	return &PaymentRepository{server: s, q: s.DB.Pool}
}

func (r *PaymentRepository) WithTx(tx pgx.Tx) *PaymentRepository {
	return &PaymentRepository{server: r.server, q: tx}
}

func (r *PaymentRepository) Create(ctx context.Context, bookingID string, base, fees decimal.Decimal, deadline time.Time) (model.Payment, error) {
	rows, err := r.q.Query(ctx, `
		INSERT INTO payments (booking_id, base_price, additional_fees, total_amount, payment_status, payment_deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+paymentColumns,
		bookingID, base, fees, base.Add(fees), model.PaymentUnpaid, deadline)
	return collectOne[model.Payment](rows, err, "payments")
}

func (r *PaymentRepository) GetByBooking(ctx context.Context, bookingID string) (model.Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID)
	return collectOne[model.Payment](rows, err, "payments")
}

// Detail joins the payment with its booking and package.
func (r *PaymentRepository) Detail(ctx context.Context, bookingID string) (model.PaymentDetail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pay.id, pay.booking_id, pay.base_price, pay.additional_fees, pay.total_amount,
			pay.payment_status, pay.payment_method, pay.payment_proof_url, pay.payment_deadline,
			pay.paid_at, pay.created_at, pay.updated_at,
			b.booking_code, b.status AS booking_status, b.participants, p.name AS package_name
		FROM payments pay
		JOIN bookings b ON b.id = pay.booking_id
		JOIN packages p ON p.id = b.package_id
		WHERE pay.booking_id = $1`, bookingID)
	return collectOne[model.PaymentDetail](rows, err, "payments")
}

// SetProof records an uploaded transfer proof and moves the payment to
// pending review.
func (r *PaymentRepository) SetProof(ctx context.Context, paymentID, url, method string) (model.Payment, error) {
	set := database.NewUpdateSet().
		Add("payment_proof_url", url).
		Add("payment_method", method).
		Add("payment_status", model.PaymentPending)
	return database.UpdateTx[model.Payment](ctx, r.q, "payments", paymentID, set, paymentColumns)
}

// SetStatus updates the status. paid_at is stamped when status is paid
// and otherwise left as it was, so a refund keeps the original payment time.
func (r *PaymentRepository) SetStatus(ctx context.Context, paymentID string, status model.PaymentStatus, now time.Time) (model.Payment, error) {
	set := database.NewUpdateSet().Add("payment_status", status)
	if status == model.PaymentPaid {
		set.Add("paid_at", now)
	}
	return database.UpdateTx[model.Payment](ctx, r.q, "payments", paymentID, set, paymentColumns)
}
