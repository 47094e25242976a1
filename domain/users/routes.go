package users

import (
	"github.com/labstack/echo/v4"

	"github.com/familytree/ledger/pkg/auth"
)

// RegisterRoutes registers the users routes
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware, limiter *auth.LoginLimiter) {
	public := e.Group("/api/auth")
	public.POST("/register", h.Register)
	public.POST("/login", h.Login, limiter.Middleware())

	e.GET("/api/me", h.Me, authMiddleware.RequireAuth())

	admin := e.Group("/api/admin/users")
	admin.Use(authMiddleware.RequireAuth())
	admin.Use(authMiddleware.RequireAdmin())
	admin.GET("", h.List)
}
