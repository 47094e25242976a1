package people

import (
	"github.com/labstack/echo/v4"

	"github.com/familytree/ledger/pkg/auth"
)

// RegisterRoutes registers the profile routes
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/profile")
	g.Use(authMiddleware.RequireAuth())

	g.GET("", h.Get)
	g.PUT("", h.Upsert)
}
