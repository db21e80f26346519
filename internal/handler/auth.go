package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Handler: NewHandler(s), auth: auth}
}

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

func (r *RegisterRequest) Validate() error {
	var f validation.Fields
	r.Email = f.Email("email", r.Email)
	f.Password("password", r.Password)
	name, err := validation.String(r.Name, 2, 100, true)
	f.Add("name", err)
	r.Name = name
	optionalPhone(&f, "phone_number", &r.PhoneNumber)
	return f.Err()
}

func (h *AuthHandler) Register(c echo.Context, req *RegisterRequest) (Response, error) {
	result, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return Response{}, err
	}
	return respond("Registration successful", result), nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	var f validation.Fields
	r.Email = f.Email("email", r.Email)
	return check(r, &f)
}

func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (Response, error) {
	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return Response{}, err
	}
	return respond("Login successful", result), nil
}

// Logout is a no-op: tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(c echo.Context, _ *NoBody) (Response, error) {
	return respond("Logout successful", nil), nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var f validation.Fields
	r.Email = f.Email("email", r.Email)
	return f.Err()
}

func (h *AuthHandler) ForgotPassword(c echo.Context, req *ForgotPasswordRequest) (Response, error) {
	result, err := h.auth.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return Response{}, err
	}
	return respond("Password reset instructions have been sent to your email", result), nil
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var f validation.Fields
	f.Password("password", r.Password)
	return check(r, &f)
}

func (h *AuthHandler) ResetPassword(c echo.Context, req *ResetPasswordRequest) (Response, error) {
	if err := h.auth.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return Response{}, err
	}
	return respond("Password has been reset", nil), nil
}
