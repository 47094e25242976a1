package auth

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthUser represents an authenticated user
type AuthUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

type contextKey string

// UserContextKey stores the *AuthUser on the echo context
const UserContextKey contextKey = "auth_user"

// GetUser retrieves the authenticated user from the Echo context
func GetUser(c echo.Context) *AuthUser {
	if user, ok := c.Get(string(UserContextKey)).(*AuthUser); ok {
		return user
	}
	return nil
}

// SetUser stores the authenticated user on the Echo context
func SetUser(c echo.Context, user *AuthUser) {
	c.Set(string(UserContextKey), user)
}
