package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const packageColumns = `p.id, p.destination_id, d.name AS destination_name, p.name, p.description,
	p.image_url, p.start_date, p.price, p.duration_days, p.itinerary, p.quota, p.is_active,
	p.is_featured, p.created_at, p.updated_at`

const packageFrom = `FROM packages p LEFT JOIN destinations d ON d.id = p.destination_id`

type PackageRepository struct {
	server *server.Server
	q      database.Querier
}

func NewPackageRepository(s *server.Server) *PackageRepository {
	return &PackageRepository{server: s, q: s.DB.Pool}
}

func (r *PackageRepository) WithTx(tx pgx.Tx) *PackageRepository {
	return &PackageRepository{server: r.server, q: tx}
}

func packageWhere(f model.PackageFilter) *where {
	w := &where{}
	if f.ActiveOnly {
		w.raw("p.is_active = true")
	}
	if f.Featured != nil {
		w.add("p.is_featured = ?", *f.Featured)
	}
	if f.DestinationID != "" {
		w.add("p.destination_id = ?", f.DestinationID)
	}
	if f.MinPrice != nil {
		w.add("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("p.price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		w.add("(p.name ILIKE ? OR p.description ILIKE ? OR d.name ILIKE ?)", likePattern(f.Search))
	}
	return w
}

// List returns packages matching f, newest first.
func (r *PackageRepository) List(ctx context.Context, f model.PackageFilter, page model.PageQuery) (model.Page[model.Package], error) {
	page = page.Normalize()
	w := packageWhere(f)

	total, err := count(ctx, r.q, `SELECT COUNT(*) `+packageFrom+` `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.Package]{}, err
	}

	sql := fmt.Sprintf(`SELECT %s %s %s ORDER BY p.created_at DESC LIMIT %s OFFSET %s`,
		packageColumns, packageFrom, w.String(), w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.Package](rows, err, "packages")
	if err != nil {
		return model.Page[model.Package]{}, err
	}
	return model.Page[model.Package]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *PackageRepository) Featured(ctx context.Context, limit int) ([]model.Package, error) {
	rows, err := r.q.Query(ctx, `SELECT `+packageColumns+` `+packageFrom+`
		WHERE p.is_active = true AND p.is_featured = true
		ORDER BY p.created_at DESC
		LIMIT $1`, limit)
	return collectAll[model.Package](rows, err, "packages")
}

// GetByID returns the package. With activeOnly, inactive packages are 404.
func (r *PackageRepository) GetByID(ctx context.Context, id string, activeOnly bool) (model.Package, error) {
	rows, err := r.q.Query(ctx, `SELECT `+packageColumns+` `+packageFrom+`
		WHERE p.id = $1 AND (p.is_active OR NOT $2)`, id, activeOnly)
	return collectOne[model.Package](rows, err, "packages")
}

// LockForBooking reads an active package with FOR UPDATE so concurrent
// bookings serialize on its quota. It must run inside a transaction.
func (r *PackageRepository) LockForBooking(ctx context.Context, id string) (model.Package, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, destination_id, name, price, duration_days, quota, is_active, start_date, created_at, updated_at
		FROM packages
		WHERE id = $1 AND is_active = true
		FOR UPDATE`, id)
	return collectOne[model.Package](rows, err, "packages")
}

// AdjustQuota adds delta to the remaining quota. The CHECK constraint
// rejects a negative result.
func (r *PackageRepository) AdjustQuota(ctx context.Context, id string, delta int) error {
	tag, err := r.q.Exec(ctx, `UPDATE packages SET quota = quota + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust quota: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("packages")
	}
	return nil
}

type CreatePackageParams struct {
	DestinationID string
	Name          string
	Description   *string
	ImageURL      *string
	StartDate     *time.Time
	Price         decimal.Decimal
	DurationDays  int
	Itinerary     json.RawMessage
	Quota         int
	IsActive      bool
	IsFeatured    bool
}

func (r *PackageRepository) Create(ctx context.Context, p CreatePackageParams) (model.Package, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO packages (destination_id, name, description, image_url, start_date, price,
			duration_days, itinerary, quota, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		p.DestinationID, p.Name, p.Description, p.ImageURL, p.StartDate, p.Price,
		p.DurationDays, p.Itinerary, p.Quota, p.IsActive, p.IsFeatured).Scan(&id)
	if err != nil {
		return model.Package{}, fmt.Errorf("insert package: %w", err)
	}
	return r.GetByID(ctx, id, false)
}

func (r *PackageRepository) Update(ctx context.Context, id string, set *database.UpdateSet) (model.Package, error) {
	if _, err := database.UpdateTx[model.Package](ctx, r.q, "packages", id, set, "id"); err != nil {
		return model.Package{}, err
	}
	return r.GetByID(ctx, id, false)
}

// Schedule returns the itinerary days of a package with their activities
// in order. A non-nil day restricts the result to that day.
func (r *PackageRepository) Schedule(ctx context.Context, packageID string, day *int) ([]model.ItineraryScheduleDay, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.day_number, a.id, a.category, a.title, a.description, a.order_number
		FROM itineraries i
		LEFT JOIN itinerary_activities a ON a.itinerary_id = i.id
		WHERE i.package_id = $1 AND ($2::int IS NULL OR i.day_number = $2)
		ORDER BY i.day_number, a.order_number`, packageID, day)
	if err != nil {
		return nil, fmt.Errorf("query itineraries: %w", err)
	}
	defer rows.Close()

	days := []model.ItineraryScheduleDay{}
	for rows.Next() {
		var (
			dayID       string
			dayNumber   int
			activityID  *string
			category    *string
			title       *string
			description *string
			order       *int
		)
		if err := rows.Scan(&dayID, &dayNumber, &activityID, &category, &title, &description, &order); err != nil {
			return nil, fmt.Errorf("scan itinerary: %w", err)
		}

		if len(days) == 0 || days[len(days)-1].ID != dayID {
			days = append(days, model.ItineraryScheduleDay{
				ID:         dayID,
				DayNumber:  dayNumber,
				Activities: []model.ItineraryActivity{},
			})
		}
		if activityID != nil {
			current := &days[len(days)-1]
			current.Activities = append(current.Activities, model.ItineraryActivity{
				ID:          *activityID,
				Category:    category,
				Title:       deref(title),
				Description: description,
				OrderNumber: derefInt(order),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read itineraries: %w", err)
	}
	return days, nil
}
