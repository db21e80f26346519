// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/muslimah-travel/internal/handler"
	"github.com/deppfellow/muslimah-travel/internal/middleware"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware chain and
// every route group.
func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	r := echo.New()
	r.HideBanner = true
	r.HidePort = true
	r.HTTPErrorHandler = m.Global.GlobalErrorHandler

	// Client IPs key the rate limiter, the API runs behind one proxy hop.
	r.IPExtractor = echo.ExtractIPFromXFFHeader()

	r.Use(
		m.Global.Recover(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Metrics.Observe(),
		m.Global.CORS(),
		m.Global.Secure(),
		m.Global.BodyLimit(),
		m.RateLimit.General(),
	)

	registerSystemRoutes(r, s, h)

	registerUserRoutes(r, h, m)
	registerCatalogRoutes(r, h, m)
	registerAccountRoutes(r, h, m)
	registerForumRoutes(r, h, m)
	registerAdminRoutes(r, h, m)

	return r
}

func registerUserRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	auth := h.Auth
	user := h.User

	g := r.Group("/user")

	g.POST("/register", handler.Handle(auth.Handler, auth.Register, http.StatusCreated, &handler.RegisterRequest{}), m.RateLimit.Auth())
	g.POST("/login", handler.Handle(auth.Handler, auth.Login, http.StatusOK, &handler.LoginRequest{}), m.RateLimit.Auth())
	g.POST("/forgot-password", handler.Handle(auth.Handler, auth.ForgotPassword, http.StatusOK, &handler.ForgotPasswordRequest{}), m.RateLimit.Auth())
	g.POST("/reset-password", handler.Handle(auth.Handler, auth.ResetPassword, http.StatusOK, &handler.ResetPasswordRequest{}), m.RateLimit.Auth())

	protected := g.Group("", m.Auth.RequireAuth)
	protected.POST("/logout", handler.Handle(auth.Handler, auth.Logout, http.StatusOK, &handler.NoBody{}))
	protected.GET("/profile", handler.Handle(user.Handler, user.Profile, http.StatusOK, &handler.NoBody{}))
	protected.PUT("/profile", handler.Handle(user.Handler, user.UpdateProfile, http.StatusOK, &handler.UpdateProfileRequest{}))
	protected.PUT("/avatar", handler.Handle(user.Handler, user.UpdateAvatar, http.StatusOK, &handler.NoBody{}), m.RateLimit.Upload())
	protected.DELETE("/avatar", handler.Handle(user.Handler, user.DeleteAvatar, http.StatusOK, &handler.NoBody{}))
	protected.PUT("/change-password", handler.Handle(user.Handler, user.ChangePassword, http.StatusOK, &handler.ChangePasswordRequest{}))
}

// registerCatalogRoutes wires the public browsing endpoints: packages,
// articles, destinations, locations and testimonials.
func registerCatalogRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	pkg := h.Package
	article := h.Article
	place := h.Place

	packages := r.Group("/packages", m.RateLimit.Public())
	packages.GET("", handler.Handle(pkg.Handler, pkg.List, http.StatusOK, &handler.ListPackagesRequest{}))
	packages.GET("/featured", handler.Handle(pkg.Handler, pkg.Featured, http.StatusOK, &handler.NoBody{}))
	packages.GET("/:id", handler.Handle(pkg.Handler, pkg.Detail, http.StatusOK, &handler.IDParam{}))

	r.GET("/tour-packages/:package_id/itineraries",
		handler.Handle(pkg.Handler, pkg.Itineraries, http.StatusOK, &handler.ItinerariesRequest{}),
		m.Auth.RequireAuth)

	articles := r.Group("/articles", m.RateLimit.Public())
	articles.GET("", handler.Handle(article.Handler, article.List, http.StatusOK, &handler.ListArticlesRequest{}))
	articles.GET("/latest", handler.Handle(article.Handler, article.Latest, http.StatusOK, &handler.NoBody{}))
	articles.GET("/categories", handler.Handle(article.Handler, article.Categories, http.StatusOK, &handler.NoBody{}))
	articles.GET("/:id", handler.Handle(article.Handler, article.Detail, http.StatusOK, &handler.ArticleKeyRequest{}))
	articles.POST("/:id/view", handler.Handle(article.Handler, article.RecordView, http.StatusOK, &handler.IDParam{}))

	destinations := r.Group("/destinations")
	destinations.GET("/search", handler.Handle(place.Handler, place.SearchDestinations, http.StatusOK, &handler.SearchDestinationsRequest{}), m.RateLimit.Search())
	destinations.GET("/:id", handler.Handle(place.Handler, place.Destination, http.StatusOK, &handler.IDParam{}), m.RateLimit.Public())

	r.GET("/locations", handler.Handle(place.Handler, place.Locations, http.StatusOK, &handler.LocationsRequest{}), m.RateLimit.Public())
	r.GET("/testimonials", handler.Handle(place.Handler, place.Testimonials, http.StatusOK, &handler.TestimonialsRequest{}), m.RateLimit.Public())
}

// registerAccountRoutes wires everything a signed-in customer owns.
func registerAccountRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	wishlist := h.Wishlist
	booking := h.Booking
	payment := h.Payment
	review := h.Review

	wishlists := r.Group("/wishlists", m.Auth.RequireAuth)
	wishlists.GET("", handler.Handle(wishlist.Handler, wishlist.List, http.StatusOK, &handler.NoBody{}))
	wishlists.POST("", handler.Handle(wishlist.Handler, wishlist.Add, http.StatusCreated, &handler.AddWishlistRequest{}))
	wishlists.DELETE("/:id", handler.Handle(wishlist.Handler, wishlist.Remove, http.StatusOK, &handler.IDParam{}))

	bookings := r.Group("/bookings", m.Auth.RequireAuth)
	bookings.POST("", handler.Handle(booking.Handler, booking.Create, http.StatusCreated, &handler.CreateBookingRequest{}))
	bookings.GET("", handler.Handle(booking.Handler, booking.List, http.StatusOK, &handler.ListBookingsRequest{}))
	bookings.GET("/:id", handler.Handle(booking.Handler, booking.Get, http.StatusOK, &handler.IDParam{}))
	bookings.PATCH("/:id/cancel", handler.Handle(booking.Handler, booking.Cancel, http.StatusOK, &handler.IDParam{}))

	payments := r.Group("/payments", m.Auth.RequireAuth)
	payments.GET("/:booking_id", handler.Handle(payment.Handler, payment.Get, http.StatusOK, &handler.BookingIDParam{}))
	payments.PUT("/:booking_id/proof", handler.Handle(payment.Handler, payment.UploadProof, http.StatusOK, &handler.UploadProofRequest{}), m.RateLimit.Upload())

	reviews := r.Group("/reviews", m.Auth.RequireAuth)
	reviews.GET("", handler.Handle(review.Handler, review.List, http.StatusOK, &handler.ListReviewsRequest{}))
	reviews.POST("", handler.Handle(review.Handler, review.Create, http.StatusCreated, &handler.CreateReviewRequest{}))
	reviews.PUT("/:id", handler.Handle(review.Handler, review.Update, http.StatusOK, &handler.UpdateReviewRequest{}))
	reviews.DELETE("/:id", handler.Handle(review.Handler, review.Delete, http.StatusOK, &handler.IDParam{}))
	reviews.POST("/:id/media", handler.Handle(review.Handler, review.AddMedia, http.StatusCreated, &handler.IDParam{}), m.RateLimit.Upload())
}

func registerForumRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	forum := h.Forum

	g := r.Group("/forum")
	g.GET("/stats", handler.Handle(forum.Handler, forum.Stats, http.StatusOK, &handler.NoBody{}), m.RateLimit.Public())
	g.GET("", handler.Handle(forum.Handler, forum.List, http.StatusOK, &handler.ListTopicsRequest{}), m.RateLimit.Public())
	g.GET("/:id", handler.Handle(forum.Handler, forum.Topic, http.StatusOK, &handler.IDParam{}), m.RateLimit.Public())

	protected := g.Group("", m.Auth.RequireAuth)
	protected.POST("", handler.Handle(forum.Handler, forum.CreateTopic, http.StatusCreated, &handler.CreateTopicRequest{}))
	protected.PUT("/:id", handler.Handle(forum.Handler, forum.UpdateTopic, http.StatusOK, &handler.UpdateTopicRequest{}))
	protected.DELETE("/:id", handler.Handle(forum.Handler, forum.DeleteTopic, http.StatusOK, &handler.IDParam{}))
	protected.POST("/:id/comments", handler.Handle(forum.Handler, forum.AddComment, http.StatusCreated, &handler.AddCommentRequest{}))
	protected.DELETE("/comments/:comment_id", handler.Handle(forum.Handler, forum.DeleteComment, http.StatusOK, &handler.CommentIDParam{}))
}

// registerAdminRoutes wires /admin. Every route requires an admin or
// super_admin token.
func registerAdminRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	a := h.Admin

	g := r.Group("/admin", m.Auth.RequireAuth, m.Auth.RequireAdmin, m.RateLimit.Admin())

	g.GET("/dashboard/stats", handler.Handle(a.Handler, a.Dashboard, http.StatusOK, &handler.NoBody{}))

	g.GET("/users", handler.Handle(a.Handler, a.Users, http.StatusOK, &handler.ListUsersRequest{}))
	g.GET("/users/search", handler.Handle(a.Handler, a.Users, http.StatusOK, &handler.ListUsersRequest{}))
	g.GET("/users/:id", handler.Handle(a.Handler, a.User, http.StatusOK, &handler.IDParam{}))
	g.POST("/users", handler.Handle(a.Handler, a.CreateUser, http.StatusCreated, &handler.CreateUserRequest{}))
	g.PUT("/users/:id", handler.Handle(a.Handler, a.UpdateUser, http.StatusOK, &handler.UpdateUserRequest{}))
	g.DELETE("/users/:id", handler.Handle(a.Handler, a.DeleteUser, http.StatusOK, &handler.IDParam{}))

	g.GET("/packages", handler.Handle(a.Handler, a.Packages, http.StatusOK, &handler.AdminListPackagesRequest{}))
	g.GET("/packages/search", handler.Handle(a.Handler, a.Packages, http.StatusOK, &handler.AdminListPackagesRequest{}))
	g.GET("/packages/:id", handler.Handle(a.Handler, a.Package, http.StatusOK, &handler.IDParam{}))
	g.POST("/packages", handler.Handle(a.Handler, a.CreatePackage, http.StatusCreated, &handler.CreatePackageRequest{}))
	g.PUT("/packages/:id", handler.Handle(a.Handler, a.UpdatePackage, http.StatusOK, &handler.UpdatePackageRequest{}))
	g.DELETE("/packages/:id", handler.Handle(a.Handler, a.DeletePackage, http.StatusOK, &handler.IDParam{}))

	g.GET("/articles", handler.Handle(a.Handler, a.Articles, http.StatusOK, &handler.AdminListArticlesRequest{}))
	g.GET("/articles/:id", handler.Handle(a.Handler, a.Article, http.StatusOK, &handler.IDParam{}))
	g.POST("/articles", handler.Handle(a.Handler, a.CreateArticle, http.StatusCreated, &handler.CreateArticleRequest{}))
	g.PUT("/articles/:id", handler.Handle(a.Handler, a.UpdateArticle, http.StatusOK, &handler.UpdateArticleRequest{}))
	g.DELETE("/articles/:id", handler.Handle(a.Handler, a.DeleteArticle, http.StatusOK, &handler.IDParam{}))
	g.PATCH("/articles/:id/publish", handler.Handle(a.Handler, a.TogglePublish, http.StatusOK, &handler.IDParam{}))

	g.GET("/orders", handler.Handle(a.Handler, a.Orders, http.StatusOK, &handler.ListOrdersRequest{}))
	g.GET("/orders/:id", handler.Handle(a.Handler, a.Order, http.StatusOK, &handler.IDParam{}))
	g.PATCH("/orders/:id/status", handler.Handle(a.Handler, a.UpdateOrderStatus, http.StatusOK, &handler.UpdateOrderStatusRequest{}))
	g.PATCH("/orders/:id/payment", handler.Handle(a.Handler, a.UpdatePaymentStatus, http.StatusOK, &handler.UpdatePaymentStatusRequest{}))

	g.GET("/community", handler.Handle(a.Handler, a.CommunityPosts, http.StatusOK, &handler.ListCommunityPostsRequest{}))
	g.GET("/community/:id", handler.Handle(a.Handler, a.CommunityPost, http.StatusOK, &handler.IDParam{}))
	g.PATCH("/community/:id/status", handler.Handle(a.Handler, a.ModerateCommunityPost, http.StatusOK, &handler.ModeratePostRequest{}))
	g.DELETE("/community/:id", handler.Handle(a.Handler, a.DeleteCommunityPost, http.StatusOK, &handler.IDParam{}))
}
