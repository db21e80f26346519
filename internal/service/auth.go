package service

import (
	"context"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/job"
	"github.com/deppfellow/muslimah-travel/internal/lib/token"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers users and exchanges credentials for access tokens.
type AuthService struct {
	server *server.Server
	users  *repository.UserRepository
	tokens *token.Manager
	now    func() time.Time
}

func NewAuthService(s *server.Server, repos *repository.Repositories, tokens *token.Manager) *AuthService {
	return &AuthService{
		server: s,
		users:  repos.User,
		tokens: tokens,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber *string
}

type AuthResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type LoginResult struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

type AuthUser struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// ForgotPasswordResult carries the reset token only in the local env;
// everywhere else it travels by email alone.
type ForgotPasswordResult struct {
	ResetToken string    `json:"reset_token,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

var (
	errEmailTaken = errs.NewBadRequestError("Email already registered", true, errs.Code("EMAIL_ALREADY_EXISTS"), nil, nil)
	errBadToken   = errs.NewBadRequestError("Invalid or expired reset token", true, errs.Code("INVALID_RESET_TOKEN"), nil, nil)
)

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	taken, err := s.users.EmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errEmailTaken
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, repository.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.Name,
		PhoneNumber:  in.PhoneNumber,
		Role:         model.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}

	task, err := job.NewWelcomeEmailTask(user.Email, user.FullName)
	s.server.Job.Enqueue(ctx, task, err)

	return &AuthResult{ID: user.ID, Name: user.FullName, Email: user.Email, Token: tok}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			s.countLogin("unknown_user")
			return nil, errs.NewNotFoundError("User not found", true, errs.Code("USER_NOT_FOUND"))
		}
		return nil, err
	}

	if err := checkPassword(user.PasswordHash, password); err != nil {
		s.countLogin("wrong_password")
		return nil, errs.NewUnauthorizedError("Invalid password", true)
	}

	tok, err := s.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	s.countLogin("success")

	return &LoginResult{
		User:  AuthUser{ID: user.ID, Name: user.FullName, Email: user.Email, Role: user.Role},
		Token: tok,
	}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			return nil, errs.NewNotFoundError("Email not registered", true, errs.Code("USER_NOT_FOUND"))
		}
		return nil, err
	}

	ttl := s.server.Config.Auth.ResetTokenTTL
	resetToken := uuid.NewString()
	expires := s.now().Add(ttl)

	if err := s.users.SetResetToken(ctx, user.ID, resetToken, expires); err != nil {
		return nil, err
	}

	task, err := job.NewPasswordResetTask(user.Email, user.FullName, resetToken, int(ttl.Hours()))
	s.server.Job.Enqueue(ctx, task, err)

	result := &ForgotPasswordResult{ExpiresAt: expires}
	if s.server.Config.Primary.Env == "local" {
		result.ResetToken = resetToken
	}
	return result, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password string) error {
	user, err := s.users.GetByResetToken(ctx, resetToken)
	if err != nil {
		if sqlerr.IsNotFound(err) {
			return errBadToken
		}
		return err
	}
	if user.ResetPasswordExpires == nil || s.now().After(*user.ResetPasswordExpires) {
		return errBadToken
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *AuthService) hash(password string) (string, error) {
	return hashPassword(s.server.Config.Auth.BcryptCost, password)
}

func hashPassword(cost int, password string) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password))
}

// bcryptMaxBytes is the longest input bcrypt hashes. Longer passwords are
// accepted and only their first 72 bytes count.
const bcryptMaxBytes = 72

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}

func (s *AuthService) countLogin(result string) {
	if s.server.Metrics != nil {
		s.server.Metrics.Logins.WithLabelValues(result).Inc()
	}
}
