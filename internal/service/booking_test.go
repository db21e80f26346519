package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/metrics"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	srv       *server.Server
	repos     *repository.Repositories
	userID    string
	packageID string
	suffix    int64
}

// newBookingFixture migrates TRAVEL_TEST_DATABASE_URL and seeds one user
// and one active package with the given price and quota. Everything it
// inserts is removed when the test ends.
func newBookingFixture(t *testing.T, price string, quota int) *bookingFixture {
	t.Helper()

	dsn := os.Getenv("TRAVEL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TRAVEL_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()
	require.NoError(t, database.MigrateURL(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	srv := &server.Server{
		Logger:  &logger,
		DB:      database.NewFromPool(pool, &logger),
		Metrics: metrics.New(),
	}

	suffix := time.Now().UnixNano()
	f := &bookingFixture{srv: srv, repos: repository.NewRepositories(srv), suffix: suffix}

	var destinationID string
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO destinations (name, location) VALUES ($1, 'Makkah') RETURNING id::text`,
		fmt.Sprintf("Makkah %d", suffix)).Scan(&destinationID))

	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO packages (destination_id, name, price, duration_days, quota)
		 VALUES ($1, $2, $3, 12, $4) RETURNING id::text`,
		destinationID, fmt.Sprintf("Umrah Reguler %d", suffix), price, quota).Scan(&f.packageID))

	f.userID = f.insertUser(t, fmt.Sprintf("aisyah.%d@example.com", suffix))

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM payments WHERE booking_id IN (SELECT id FROM bookings WHERE package_id = $1)`, f.packageID)
		_, _ = pool.Exec(ctx, `DELETE FROM bookings WHERE package_id = $1`, f.packageID)
		_, _ = pool.Exec(ctx, `DELETE FROM packages WHERE id = $1`, f.packageID)
		_, _ = pool.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, destinationID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE email LIKE $1`, fmt.Sprintf("%%.%d@example.com", suffix))
		pool.Close()
	})

	return f
}

func (f *bookingFixture) insertUser(t *testing.T, email string) string {
	t.Helper()
	var id string
	require.NoError(t, f.srv.DB.Pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password, full_name) VALUES ($1, 'x', 'Aisyah') RETURNING id::text`,
		email).Scan(&id))
	return id
}

func (f *bookingFixture) quota(t *testing.T) int {
	t.Helper()
	var quota int
	require.NoError(t, f.srv.DB.Pool.QueryRow(context.Background(),
		`SELECT quota FROM packages WHERE id = $1`, f.packageID).Scan(&quota))
	return quota
}

func (f *bookingFixture) book(t *testing.T, participants int) model.BookingDetail {
	t.Helper()
	detail, err := NewBookingService(f.srv, f.repos).Create(context.Background(), f.userID, f.input(participants))
	require.NoError(t, err)
	return detail
}

func (f *bookingFixture) input(participants int) CreateBookingInput {
	return CreateBookingInput{
		PackageID:     f.packageID,
		DepartureDate: time.Now().AddDate(0, 2, 0).Truncate(24 * time.Hour),
		Participants:  participants,
	}
}

func requireStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected HTTPError, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	if code != "" {
		assert.Equal(t, code, httpErr.Code)
	}
}

func TestCreateBookingPricesAndOpensPayment(t *testing.T) {
	f := newBookingFixture(t, "25000000.50", 10)

	fixed := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	bookings := NewBookingService(f.srv, f.repos)
	bookings.now = func() time.Time { return fixed }

	detail, err := bookings.Create(context.Background(), f.userID, f.input(3))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("75000001.50").Equal(detail.TotalPrice), "total %s", detail.TotalPrice)
	assert.Equal(t, model.BookingPending, detail.Status)
	assert.Equal(t, model.PaymentUnpaid, detail.PaymentStatus)
	assert.Regexp(t, `^MT-20250310-[A-Z0-9]{6}$`, detail.BookingCode)

	require.NotNil(t, detail.Payment)
	assert.Equal(t, model.PaymentUnpaid, detail.Payment.PaymentStatus)
	assert.True(t, detail.TotalPrice.Equal(detail.Payment.TotalAmount))
	assert.True(t, detail.Payment.AdditionalFees.IsZero())
	require.NotNil(t, detail.Payment.PaymentDeadline)
	assert.WithinDuration(t, fixed.Add(24*time.Hour), *detail.Payment.PaymentDeadline, time.Second)
	assert.Nil(t, detail.Payment.PaidAt)

	assert.Equal(t, 7, f.quota(t))
}

func TestCreateBookingRejectsOverQuota(t *testing.T) {
	f := newBookingFixture(t, "1000000", 2)

	_, err := NewBookingService(f.srv, f.repos).Create(context.Background(), f.userID, f.input(3))
	requireStatus(t, err, http.StatusBadRequest, "INSUFFICIENT_QUOTA")
	assert.Equal(t, 2, f.quota(t))

	f.book(t, 2)
	assert.Equal(t, 0, f.quota(t))
}

func TestCreateBookingConcurrentNeverOversells(t *testing.T) {
	const quota, attempts = 5, 12
	f := newBookingFixture(t, "1000000", quota)
	bookings := NewBookingService(f.srv, f.repos)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookings.Create(context.Background(), f.userID, f.input(1))

			mu.Lock()
			defer mu.Unlock()
			var httpErr *errs.HTTPError
			switch {
			case err == nil:
				created++
			case errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, quota, created)
	assert.Equal(t, attempts-quota, rejected)
	assert.Equal(t, 0, f.quota(t))
}

func TestCancelBookingRestoresQuota(t *testing.T) {
	f := newBookingFixture(t, "1000000", 10)
	bookings := NewBookingService(f.srv, f.repos)
	ctx := context.Background()

	detail := f.book(t, 4)
	require.Equal(t, 6, f.quota(t))

	t.Run("other user forbidden", func(t *testing.T) {
		stranger := f.insertUser(t, fmt.Sprintf("stranger.%d@example.com", f.suffix))
		_, err := bookings.Cancel(ctx, stranger, detail.ID)
		requireStatus(t, err, http.StatusForbidden, "")
		assert.Equal(t, 6, f.quota(t))
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := bookings.Cancel(ctx, f.userID, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, cancelled.Status)
		assert.Equal(t, 10, f.quota(t))
	})

	t.Run("second cancel rejected", func(t *testing.T) {
		_, err := bookings.Cancel(ctx, f.userID, detail.ID)
		requireStatus(t, err, http.StatusBadRequest, "BOOKING_NOT_CANCELLABLE")
		assert.Equal(t, 10, f.quota(t))
	})
}

func TestCancelBookingOnlyWhilePending(t *testing.T) {
	f := newBookingFixture(t, "1000000", 10)
	admin := NewAdminService(f.srv, f.repos)
	ctx := context.Background()

	detail := f.book(t, 2)
	_, err := admin.UpdateOrderStatus(ctx, detail.ID, model.BookingConfirmed)
	require.NoError(t, err)

	_, err = NewBookingService(f.srv, f.repos).Cancel(ctx, f.userID, detail.ID)
	requireStatus(t, err, http.StatusBadRequest, "BOOKING_NOT_CANCELLABLE")
	assert.Equal(t, 8, f.quota(t))
}

func TestAdminCancelRestoresQuotaOnce(t *testing.T) {
	f := newBookingFixture(t, "1000000", 10)
	admin := NewAdminService(f.srv, f.repos)
	ctx := context.Background()

	detail := f.book(t, 3)
	require.Equal(t, 7, f.quota(t))

	booking, err := admin.UpdateOrderStatus(ctx, detail.ID, model.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, booking.Status)
	assert.Equal(t, 10, f.quota(t))

	_, err = admin.UpdateOrderStatus(ctx, detail.ID, model.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, f.quota(t))

	_, err = admin.UpdateOrderStatus(ctx, detail.ID, model.BookingConfirmed)
	requireStatus(t, err, http.StatusBadRequest, "BOOKING_CANCELLED")
	assert.Equal(t, 10, f.quota(t))
}

func TestAdminPaymentStatusStampsPaidAt(t *testing.T) {
	f := newBookingFixture(t, "1000000", 10)
	admin := NewAdminService(f.srv, f.repos)
	ctx := context.Background()

	paidAt := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	admin.now = func() time.Time { return paidAt }

	detail := f.book(t, 1)

	paid, err := admin.UpdatePaymentStatus(ctx, detail.ID, model.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.Payment)
	assert.Equal(t, model.PaymentPaid, paid.Payment.PaymentStatus)
	require.NotNil(t, paid.Payment.PaidAt)
	assert.WithinDuration(t, paidAt, *paid.Payment.PaidAt, time.Second)

	admin.now = func() time.Time { return paidAt.Add(48 * time.Hour) }
	refunded, err := admin.UpdatePaymentStatus(ctx, detail.ID, model.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, refunded.Payment.PaymentStatus)
	require.NotNil(t, refunded.Payment.PaidAt)
	assert.WithinDuration(t, paidAt, *refunded.Payment.PaidAt, time.Second)
}

func TestCreateBookingUnknownPackage(t *testing.T) {
	f := newBookingFixture(t, "1000000", 10)
	in := f.input(1)
	in.PackageID = "00000000-0000-4000-8000-000000000000"

	_, err := NewBookingService(f.srv, f.repos).Create(context.Background(), f.userID, in)
	assert.True(t, sqlerr.IsNotFound(err), "expected not found, got %v", err)
	assert.Equal(t, 10, f.quota(t))
}
