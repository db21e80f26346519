package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
)

// Handlers groups every HTTP handler so the router is wired from one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Auth     *AuthHandler
	User     *UserHandler
	Package  *PackageHandler
	Article  *ArticleHandler
	Place    *PlaceHandler
	Wishlist *WishlistHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Review   *ReviewHandler
	Forum    *ForumHandler
	Admin    *AdminHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Auth:     NewAuthHandler(s, services.Auth),
		User:     NewUserHandler(s, services.User),
		Package:  NewPackageHandler(s, services.Package),
		Article:  NewArticleHandler(s, services.Article),
		Place:    NewPlaceHandler(s, services.Place),
		Wishlist: NewWishlistHandler(s, services.Wishlist),
		Booking:  NewBookingHandler(s, services.Booking),
		Payment:  NewPaymentHandler(s, services.Payment),
		Review:   NewReviewHandler(s, services.Review),
		Forum:    NewForumHandler(s, services.Forum),
		Admin:    NewAdminHandler(s, services.Admin),
	}
}
