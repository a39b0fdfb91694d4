package router

import (
	"github.com/deppfellow/travel-sync/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the routes outside /api: probes and docs.
// None of them goes through access control.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/health", h.Health.Live)
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
