package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

// PlaceRepository serves destinations, locations and testimonials, the
// read-only catalogue behind the landing pages.
type PlaceRepository struct {
	server *server.Server
	q      database.Querier
}

func NewPlaceRepository(s *server.Server) *PlaceRepository {
	return &PlaceRepository{server: s, q: s.DB.Pool}
}

const destinationColumns = `d.id, d.name, d.location, d.description, d.category, d.image_url, d.rating,
	d.is_halal_friendly, d.created_at,
	(SELECT COUNT(*) FROM packages p WHERE p.destination_id = d.id AND p.is_active) AS package_count`

func (r *PlaceRepository) SearchDestinations(ctx context.Context, f model.DestinationFilter, page model.PageQuery) (model.Page[model.Destination], error) {
	page = page.Normalize()

	var w where
	if f.Search != "" {
		w.add("(d.name ILIKE ? OR d.location ILIKE ? OR d.description ILIKE ?)", likePattern(f.Search))
	}
	if f.Category != "" {
		w.add("d.category ILIKE ?", f.Category)
	}
	if f.Halal != nil {
		w.add("d.is_halal_friendly = ?", *f.Halal)
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM destinations d `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.Destination]{}, err
	}

	sql := fmt.Sprintf(`SELECT %s FROM destinations d %s ORDER BY d.rating DESC, d.name LIMIT %s OFFSET %s`,
		destinationColumns, w.String(), w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.Destination](rows, err, "destinations")
	if err != nil {
		return model.Page[model.Destination]{}, err
	}
	return model.Page[model.Destination]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *PlaceRepository) GetDestination(ctx context.Context, id string) (model.Destination, error) {
	rows, err := r.q.Query(ctx, `SELECT `+destinationColumns+` FROM destinations d WHERE d.id = $1`, id)
	return collectOne[model.Destination](rows, err, "destinations")
}

// Locations lists countries, optionally within one region.
func (r *PlaceRepository) Locations(ctx context.Context, region string) ([]model.Location, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, country, region, flag_url
		FROM locations
		WHERE $1 = '' OR region ILIKE $1
		ORDER BY country`, region)
	return collectAll[model.Location](rows, err, "locations")
}

func (r *PlaceRepository) Testimonials(ctx context.Context, featured *bool, limit int) ([]model.Testimonial, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, location, avatar_url, content, rating, is_featured, created_at
		FROM testimonials
		WHERE $1::boolean IS NULL OR is_featured = $1
		ORDER BY created_at DESC
		LIMIT $2`, featured, limit)
	return collectAll[model.Testimonial](rows, err, "testimonials")
}
