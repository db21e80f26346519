package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

type WishlistRepository struct {
	server *server.Server
	q      database.Querier
}

func NewWishlistRepository(s *server.Server) *WishlistRepository {
	return &WishlistRepository{server: s, q: s.DB.Pool}
}

const wishlistSelect = `
	SELECT w.id, w.package_id, p.name, p.image_url, p.price, p.duration_days, d.location, w.created_at
	FROM wishlists w
	JOIN packages p ON p.id = w.package_id
	LEFT JOIN destinations d ON d.id = p.destination_id`

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	rows, err := r.q.Query(ctx, wishlistSelect+` WHERE w.user_id = $1 ORDER BY w.created_at DESC`, userID)
	return collectAll[model.WishlistItem](rows, err, "wishlists")
}

// Add inserts the pair. A duplicate hits wishlists_package_key and is
// reported by sqlerr as a 400.
func (r *WishlistRepository) Add(ctx context.Context, userID, packageID string) (model.WishlistItem, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO wishlists (user_id, package_id) VALUES ($1, $2) RETURNING id`,
		userID, packageID).Scan(&id)
	if err != nil {
		return model.WishlistItem{}, fmt.Errorf("insert wishlist: %w", err)
	}

	rows, err := r.q.Query(ctx, wishlistSelect+` WHERE w.id = $1`, id)
	return collectOne[model.WishlistItem](rows, err, "wishlists")
}

// Owner returns the user id owning the wishlist row.
func (r *WishlistRepository) Owner(ctx context.Context, id string) (string, error) {
	var owner string
	if err := r.q.QueryRow(ctx, `SELECT user_id FROM wishlists WHERE id = $1`, id).Scan(&owner); err != nil {
		return "", rowErr(err, "wishlists", "get wishlist owner")
	}
	return owner, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM wishlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("wishlists")
	}
	return nil
}
