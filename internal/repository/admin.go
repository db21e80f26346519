package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

// AdminRepository holds the reporting and moderation queries that span
// several tables.
type AdminRepository struct {
	server *server.Server
	q      database.Querier
}

func NewAdminRepository(s *server.Server) *AdminRepository {
	return &AdminRepository{server: s, q: s.DB.Pool}
}

func (r *AdminRepository) DashboardTotals(ctx context.Context) (model.DashboardTotals, error) {
	rows, err := r.q.Query(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bookings) AS total_booking,
			(SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE payment_status = 'paid') AS total_profit,
			(SELECT COUNT(DISTINCT user_id) FROM bookings) AS active_customer,
			(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed') AS confirmed,
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending') AS pending,
			(SELECT COUNT(*) FROM bookings WHERE status = 'cancelled') AS cancelled`)
	return collectOne[model.DashboardTotals](rows, err, "bookings")
}

// MonthlySales totals bookings per month of the current year.
func (r *AdminRepository) MonthlySales(ctx context.Context) ([]model.MonthlySales, error) {
	rows, err := r.q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM created_at)::int AS month,
			COALESCE(SUM(total_price), 0) AS total,
			COUNT(*) AS count
		FROM bookings
		WHERE created_at >= DATE_TRUNC('year', CURRENT_DATE)
		GROUP BY 1
		ORDER BY 1`)
	return collectAll[model.MonthlySales](rows, err, "bookings")
}

func (r *AdminRepository) TopCustomers(ctx context.Context, limit int) ([]model.TopCustomer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.id AS user_id, u.full_name AS name, u.email,
			COALESCE(SUM(b.total_price), 0) AS total_spent,
			COUNT(b.id) AS bookings
		FROM users u
		JOIN bookings b ON b.user_id = u.id
		WHERE u.role = 'user'
		GROUP BY u.id, u.full_name, u.email
		ORDER BY total_spent DESC
		LIMIT $1`, limit)
	return collectAll[model.TopCustomer](rows, err, "users")
}

func (r *AdminRepository) UpcomingTrips(ctx context.Context, limit int) ([]model.UpcomingTrip, error) {
	rows, err := r.q.Query(ctx, `
		SELECT b.id AS booking_id, b.booking_code, p.name AS package_name, u.full_name AS customer_name,
			b.departure_date, b.participants
		FROM bookings b
		JOIN packages p ON p.id = b.package_id
		JOIN users u ON u.id = b.user_id
		WHERE b.departure_date > CURRENT_DATE AND b.status <> 'cancelled'
		ORDER BY b.departure_date
		LIMIT $1`, limit)
	return collectAll[model.UpcomingTrip](rows, err, "bookings")
}

const communityColumns = `c.id, c.user_id, u.full_name AS author_name, c.title, c.content, c.image_url,
	c.status, c.created_at, c.updated_at`

const communityFrom = `FROM community_posts c LEFT JOIN users u ON u.id = c.user_id`

// CommunityPosts lists posts newest first. month matches the English
// month name of created_at, so "jan" and "January" both work.
func (r *AdminRepository) CommunityPosts(ctx context.Context, month, status string, page model.PageQuery) (model.Page[model.CommunityPost], error) {
	page = page.Normalize()

	var w where
	if month != "" {
		w.add("TO_CHAR(c.created_at, 'FMMonth') ILIKE ?", likePattern(month))
	}
	if status != "" {
		w.add("c.status = ?", status)
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM community_posts c `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.CommunityPost]{}, err
	}

	sql := fmt.Sprintf(`SELECT %s %s %s ORDER BY c.created_at DESC LIMIT %s OFFSET %s`,
		communityColumns, communityFrom, w.String(), w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.CommunityPost](rows, err, "community_posts")
	if err != nil {
		return model.Page[model.CommunityPost]{}, err
	}
	return model.Page[model.CommunityPost]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *AdminRepository) CommunityPost(ctx context.Context, id string) (model.CommunityPost, error) {
	rows, err := r.q.Query(ctx, `SELECT `+communityColumns+` `+communityFrom+` WHERE c.id = $1`, id)
	return collectOne[model.CommunityPost](rows, err, "community_posts")
}

func (r *AdminRepository) ModerateCommunityPost(ctx context.Context, id string, status model.CommunityPostStatus) (model.CommunityPost, error) {
	set := database.NewUpdateSet().Add("status", status)
	if _, err := database.UpdateWithValidation[model.CommunityPost](ctx, r.server.DB, "community_posts", id, set, "id"); err != nil {
		return model.CommunityPost{}, err
	}
	return r.CommunityPost(ctx, id)
}

func (r *AdminRepository) DeleteCommunityPost(ctx context.Context, id string) error {
	return r.server.DB.SafeDelete(ctx, "community_posts", id)
}
