package middleware

import (
	"strings"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/token"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware verifies the bearer tokens issued at login.
type AuthMiddleware struct {
	server *server.Server
	tokens *token.Manager
}

func NewAuthMiddleware(s *server.Server, tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		tokens: tokens,
	}
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token. On success the caller's id, email and role are stored in the echo
// context and added to the request logger.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errs.NewUnauthorizedError("Missing bearer token", true)
		}

		claims, err := auth.tokens.Parse(raw)
		if err != nil {
			GetLogger(c).Warn().
				Err(err).
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("rejected access token")
			return errs.NewUnauthorizedError("Invalid or expired token", true)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.Role)
		c.Set(UserEmailKey, claims.Email)

		logger := GetLogger(c).With().
			Str("user_id", claims.Subject).
			Str("user_role", claims.Role).
			Logger()
		storeLogger(c, &logger)

		logger.Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated")

		return next(c)
	}
}

// RequireAdmin must run after RequireAuth.
func (auth *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !GetUserRole(c).IsAdmin() {
			GetLogger(c).Warn().Str("function", "RequireAdmin").Msg("non-admin hit admin route")
			return errs.NewForbiddenError("Admin access required", true)
		}
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// GetUserRole returns the authenticated caller's role, empty when the
// route is public.
func GetUserRole(c echo.Context) model.Role {
	if role, ok := c.Get(UserRoleKey).(string); ok {
		return model.Role(role)
	}
	return ""
}

func GetUserEmail(c echo.Context) string {
	if email, ok := c.Get(UserEmailKey).(string); ok {
		return email
	}
	return ""
}
