package router

import (
	"github.com/deppfellow/travel-sync/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerTravelPlanRoutes(api *echo.Group, h *handler.Handlers) {
	plans := api.Group("/travel_plans")
	plans.GET("", h.TravelPlans.ListRoute())
	plans.POST("", h.TravelPlans.UpsertRoute())
	plans.PATCH("/:id", h.TravelPlans.PatchRoute())
	plans.DELETE("/:id", h.TravelPlans.DeleteRoute())
}

func registerExpenseRoutes(api *echo.Group, h *handler.Handlers) {
	expenses := api.Group("/expenses")
	expenses.GET("", h.Expenses.ListRoute())
	expenses.POST("", h.Expenses.UpsertRoute())
	expenses.PATCH("/:id", h.Expenses.PatchRoute())
	expenses.DELETE("/:id", h.Expenses.DeleteRoute())
}
