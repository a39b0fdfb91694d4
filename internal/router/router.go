// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/travel-sync/internal/handler"
	"github.com/deppfellow/travel-sync/internal/middleware"
	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/deppfellow/travel-sync/internal/service"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with every middleware and route.
//
// Middleware order: request id, New Relic transaction, tracing attributes,
// request logger context, access log, panic recovery, security headers,
// CORS, access control, rate limit. CORS runs before access control so
// preflight requests to /api/ are answered without a key.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s, services)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.IPExtractor = middleware.ClientIP
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Access.RequireAccess,
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerTravelPlanRoutes(api, h)
	registerExpenseRoutes(api, h)

	return router
}
