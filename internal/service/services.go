package service

import (
	"github.com/deppfellow/muslimah-travel/internal/lib/job"
	"github.com/deppfellow/muslimah-travel/internal/lib/token"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

type Services struct {
	Auth     *AuthService
	User     *UserService
	Package  *PackageService
	Article  *ArticleService
	Place    *PlaceService
	Wishlist *WishlistService
	Booking  *BookingService
	Payment  *PaymentService
	Review   *ReviewService
	Forum    *ForumService
	Admin    *AdminService
	Job      *job.JobService
	Tokens   *token.Manager
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	tokens := token.NewManager(s.Config.Auth)

	return &Services{
		Auth:     NewAuthService(s, repos, tokens),
		User:     NewUserService(s, repos),
		Package:  NewPackageService(s, repos),
		Article:  NewArticleService(s, repos),
		Place:    NewPlaceService(s, repos),
		Wishlist: NewWishlistService(s, repos),
		Booking:  NewBookingService(s, repos),
		Payment:  NewPaymentService(s, repos),
		Review:   NewReviewService(s, repos),
		Forum:    NewForumService(s, repos),
		Admin:    NewAdminService(s, repos),
		Job:      s.Job,
		Tokens:   tokens,
	}, nil
}
