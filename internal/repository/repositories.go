package repository

import (
	"github.com/deppfellow/muslimah-travel/internal/server"
)

// Repositories groups every repository so services share one set.
type Repositories struct {
	User     *UserRepository
	Package  *PackageRepository
	Article  *ArticleRepository
	Place    *PlaceRepository
	Wishlist *WishlistRepository
	Booking  *BookingRepository
	Payment  *PaymentRepository
	Review   *ReviewRepository
	Forum    *ForumRepository
	Admin    *AdminRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		User:     NewUserRepository(s),
		Package:  NewPackageRepository(s),
		Article:  NewArticleRepository(s),
		Place:    NewPlaceRepository(s),
		Wishlist: NewWishlistRepository(s),
		Booking:  NewBookingRepository(s),
		Payment:  NewPaymentRepository(s),
		Review:   NewReviewRepository(s),
		Forum:    NewForumRepository(s),
		Admin:    NewAdminRepository(s),
	}
}
