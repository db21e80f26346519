package service

import (
	"context"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

type WishlistService struct {
	server    *server.Server
	wishlists *repository.WishlistRepository
	packages  *repository.PackageRepository
}

func NewWishlistService(s *server.Server, repos *repository.Repositories) *WishlistService {
	return &WishlistService{server: s, wishlists: repos.Wishlist, packages: repos.Package}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	return s.wishlists.ListByUser(ctx, userID)
}

// Add saves an active package to the user's wishlist. Saving it twice is
// rejected by the unique constraint.
func (s *WishlistService) Add(ctx context.Context, userID, packageID string) (model.WishlistItem, error) {
	if _, err := s.packages.GetByID(ctx, packageID, true); err != nil {
		return model.WishlistItem{}, err
	}
	return s.wishlists.Add(ctx, userID, packageID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, id string) error {
	owner, err := s.wishlists.Owner(ctx, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return errs.NewForbiddenError("You can only remove your own wishlist items", true)
	}
	return s.wishlists.Delete(ctx, id)
}
