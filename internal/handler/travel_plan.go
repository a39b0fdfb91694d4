package handler

import (
	"net/http"

	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/deppfellow/travel-sync/internal/service"
	"github.com/deppfellow/travel-sync/internal/validation"
	"github.com/labstack/echo/v4"
)

type ListTravelPlansRequest struct {
	UserID string `query:"user_id" json:"user_id" validate:"required"`
}

func (r *ListTravelPlansRequest) Validate() error {
	return validation.Struct(r)
}

// UpsertTravelPlanRequest is the full plan record.
type UpsertTravelPlanRequest struct {
	model.TravelPlan
	keys bodyKeys
}

func (r *UpsertTravelPlanRequest) UnmarshalJSON(data []byte) error {
	keys, err := decodeRecord(data, &r.TravelPlan)
	if err != nil {
		return err
	}
	r.keys = keys
	return nil
}

func (r *UpsertTravelPlanRequest) Validate() error {
	return validateRecord(r, r.keys, model.PlanBodyRules)
}

type TravelPlanHandler struct {
	Handler
	plans *service.TravelPlanService
}

func NewTravelPlanHandler(s *server.Server, plans *service.TravelPlanService) *TravelPlanHandler {
	return &TravelPlanHandler{
		Handler: NewHandler(s),
		plans:   plans,
	}
}

func (h *TravelPlanHandler) List(c echo.Context, req *ListTravelPlansRequest) ([]model.TravelPlan, error) {
	return h.plans.List(c.Request().Context(), req.UserID)
}

func (h *TravelPlanHandler) Upsert(c echo.Context, req *UpsertTravelPlanRequest) (*OKResponse, error) {
	if err := h.plans.Upsert(c.Request().Context(), &req.TravelPlan); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func (h *TravelPlanHandler) Patch(c echo.Context, req *PatchRequest) (*OKResponse, error) {
	if err := h.plans.Patch(c.Request().Context(), req.ID, req.Updates); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func (h *TravelPlanHandler) Delete(c echo.Context, req *DeleteRequest) (*OKResponse, error) {
	if err := h.plans.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return okResponse, nil
}

// ListRoute and the other *Route methods wrap the typed endpoints for the router.
func (h *TravelPlanHandler) ListRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.List, http.StatusOK, &ListTravelPlansRequest{})
}

func (h *TravelPlanHandler) UpsertRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Upsert, http.StatusOK, &UpsertTravelPlanRequest{})
}

func (h *TravelPlanHandler) PatchRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Patch, http.StatusOK, &PatchRequest{})
}

func (h *TravelPlanHandler) DeleteRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Delete, http.StatusOK, &DeleteRequest{})
}
