package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

const reviewColumns = `r.id, r.user_id, r.booking_id, r.tour_package_id, p.name AS package_name, r.rating,
	r.comment, r.is_published, r.created_at, r.updated_at`

const reviewFrom = `FROM reviews r JOIN packages p ON p.id = r.tour_package_id`

type ReviewRepository struct {
	server *server.Server
	q      database.Querier
}

func NewReviewRepository(s *server.Server) *ReviewRepository {
	return &ReviewRepository{server: s, q: s.DB.Pool}
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID string, page model.PageQuery) (model.Page[model.Review], error) {
	page = page.Normalize()

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID)
	if err != nil {
		return model.Page[model.Review]{}, err
	}

	rows, err := r.q.Query(ctx, `SELECT `+reviewColumns+` `+reviewFrom+`
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset())
	items, err := collectAll[model.Review](rows, err, "reviews")
	if err != nil {
		return model.Page[model.Review]{}, err
	}

	if err := r.attachMedia(ctx, items); err != nil {
		return model.Page[model.Review]{}, err
	}
	return model.Page[model.Review]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (model.Review, error) {
	rows, err := r.q.Query(ctx, `SELECT `+reviewColumns+` `+reviewFrom+` WHERE r.id = $1`, id)
	review, err := collectOne[model.Review](rows, err, "reviews")
	if err != nil {
		return model.Review{}, err
	}

	items := []model.Review{review}
	if err := r.attachMedia(ctx, items); err != nil {
		return model.Review{}, err
	}
	return items[0], nil
}

// attachMedia loads the media of every review in one query.
func (r *ReviewRepository) attachMedia(ctx context.Context, reviews []model.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]string, len(reviews))
	index := make(map[string]int, len(reviews))
	for i := range reviews {
		ids[i] = reviews[i].ID
		index[reviews[i].ID] = i
		reviews[i].Media = []model.ReviewMedia{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, review_id, media_url, media_type, created_at
		FROM review_media
		WHERE review_id = ANY($1::uuid[])
		ORDER BY created_at`, ids)
	media, err := collectAll[model.ReviewMedia](rows, err, "review_media")
	if err != nil {
		return err
	}

	for _, m := range media {
		i := index[m.ReviewID]
		reviews[i].Media = append(reviews[i].Media, m)
	}
	return nil
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return exists, nil
}

type CreateReviewParams struct {
	UserID    string
	BookingID string
	PackageID string
	Rating    int
	Comment   *string
}

// Create stores the review unpublished until an admin publishes it.
func (r *ReviewRepository) Create(ctx context.Context, p CreateReviewParams) (model.Review, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO reviews (user_id, booking_id, tour_package_id, rating, comment, is_published)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id`,
		p.UserID, p.BookingID, p.PackageID, p.Rating, p.Comment).Scan(&id)
	if err != nil {
		return model.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Update(ctx context.Context, id string, set *database.UpdateSet) (model.Review, error) {
	if _, err := database.UpdateWithValidation[model.Review](ctx, r.server.DB, "reviews", id, set, "id"); err != nil {
		return model.Review{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the review and its media in one transaction.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return r.server.DB.DeleteWithCascade(ctx, "reviews", id,
		database.Dependency{Table: "review_media", ForeignKey: "review_id"})
}

func (r *ReviewRepository) MediaCount(ctx context.Context, reviewID string) (int, error) {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM review_media WHERE review_id = $1`, reviewID)
	return int(n), err
}

type ReviewMediaParams struct {
	URL  string
	Type string
}

// AddMedia inserts every item or none.
func (r *ReviewRepository) AddMedia(ctx context.Context, reviewID string, items []ReviewMediaParams) ([]string, error) {
	records := make([][]any, len(items))
	for i, m := range items {
		records[i] = []any{reviewID, m.URL, m.Type}
	}
	return r.server.DB.BulkInsert(ctx, "review_media", []string{"review_id", "media_url", "media_type"}, records)
}
