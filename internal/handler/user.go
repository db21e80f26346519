package handler

import (
	"fmt"
	"unicode/utf8"

	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{Handler: NewHandler(s), users: users}
}

func (h *UserHandler) Profile(c echo.Context, _ *NoBody) (Response, error) {
	user, err := h.users.Profile(c.Request().Context(), userID(c))
	if err != nil {
		return Response{}, err
	}
	return respond("Profile retrieved", user), nil
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (r *UpdateProfileRequest) Validate() error {
	var f validation.Fields
	atLeastOne(&f, r.Name != nil, r.Email != nil, r.PhoneNumber != nil)
	optionalString(&f, "name", &r.Name, 2, 100)
	if r.Email != nil {
		email := f.Email("email", *r.Email)
		r.Email = &email
	}
	if r.PhoneNumber != nil {
		phone := f.Phone("phone_number", *r.PhoneNumber, true)
		r.PhoneNumber = &phone
	}
	return f.Err()
}

func (h *UserHandler) UpdateProfile(c echo.Context, req *UpdateProfileRequest) (Response, error) {
	user, err := h.users.UpdateProfile(c.Request().Context(), userID(c), service.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return Response{}, err
	}
	return respond("Profile updated", user), nil
}

func (h *UserHandler) UpdateAvatar(c echo.Context, _ *NoBody) (Response, error) {
	fh, err := formFile(c, "avatar")
	if err != nil {
		return Response{}, err
	}
	user, err := h.users.UpdateAvatar(c.Request().Context(), userID(c), fh)
	if err != nil {
		return Response{}, err
	}
	return respond("Avatar updated", user), nil
}

func (h *UserHandler) DeleteAvatar(c echo.Context, _ *NoBody) (Response, error) {
	user, err := h.users.DeleteAvatar(c.Request().Context(), userID(c))
	if err != nil {
		return Response{}, err
	}
	return respond("Avatar deleted", user), nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	var f validation.Fields
	if utf8.RuneCountInString(r.NewPassword) < service.MinNewPasswordLength {
		f.Add("new_password", fmt.Errorf("must be at least %d characters", service.MinNewPasswordLength))
	}
	return check(r, &f)
}

func (h *UserHandler) ChangePassword(c echo.Context, req *ChangePasswordRequest) (Response, error) {
	if err := h.users.ChangePassword(c.Request().Context(), userID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return Response{}, err
	}
	return respond("Password changed", nil), nil
}
