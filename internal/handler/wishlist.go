package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	Handler
	wishlists *service.WishlistService
}

func NewWishlistHandler(s *server.Server, wishlists *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{Handler: NewHandler(s), wishlists: wishlists}
}

func (h *WishlistHandler) List(c echo.Context, _ *NoBody) (Response, error) {
	items, err := h.wishlists.List(c.Request().Context(), userID(c))
	if err != nil {
		return Response{}, err
	}
	return list("Wishlist retrieved", items), nil
}

type AddWishlistRequest struct {
	PackageID string `json:"tour_package_id"`
}

func (r *AddWishlistRequest) Validate() error {
	var f validation.Fields
	r.PackageID = f.UUID("tour_package_id", r.PackageID)
	return f.Err()
}

func (h *WishlistHandler) Add(c echo.Context, req *AddWishlistRequest) (Response, error) {
	item, err := h.wishlists.Add(c.Request().Context(), userID(c), req.PackageID)
	if err != nil {
		return Response{}, err
	}
	return respond("Package added to wishlist", item), nil
}

func (h *WishlistHandler) Remove(c echo.Context, req *IDParam) (Response, error) {
	if err := h.wishlists.Remove(c.Request().Context(), userID(c), req.ID); err != nil {
		return Response{}, err
	}
	return respond("Package removed from wishlist", nil), nil
}
