package relatives

import (
	"github.com/labstack/echo/v4"

	"github.com/familytree/ledger/pkg/auth"
)

// RegisterRoutes registers the relatives routes
func RegisterRoutes(e *echo.Echo, h *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/relatives")
	g.Use(authMiddleware.RequireAuth())

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/candidates", h.Candidates)
	g.GET("/kinds", h.Kinds)
	g.POST("/validate", h.Validate)
	g.DELETE("/:counterpartId", h.Delete)

	admin := e.Group("/api/admin/relatives")
	admin.Use(authMiddleware.RequireAuth())
	admin.Use(authMiddleware.RequireAdmin())
	admin.POST("/audit", h.Audit)
}
