package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/logger"
)

// Middleware authenticates requests with bearer access tokens
type Middleware struct {
	tokens *TokenManager
	log    *slog.Logger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(tokens *TokenManager, log *slog.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		log:    log.With(logger.Scope("auth")),
	}
}

// RequireAuth rejects requests without a valid access token and stores the
// authenticated user on the context.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request())
			if token == "" {
				return apperror.ErrMissingToken
			}

			user, err := m.tokens.Parse(token)
			if err != nil {
				m.log.Debug("token rejected", logger.Error(err))
				return err
			}

			SetUser(c, user)
			m.log.Debug("user accessed route",
				slog.String("user_id", user.ID.String()),
				slog.String("path", c.Path()),
			)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth
func (m *Middleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return apperror.ErrUnauthorized
			}
			if !user.IsAdmin {
				return apperror.ErrForbidden.WithMessage("Administrator access required")
			}
			return next(c)
		}
	}
}

// extractToken reads the Authorization bearer header, falling back to the
// token query parameter.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
