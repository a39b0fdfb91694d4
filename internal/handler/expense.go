package handler

import (
	"net/http"

	"github.com/deppfellow/travel-sync/internal/model"
	"github.com/deppfellow/travel-sync/internal/server"
	"github.com/deppfellow/travel-sync/internal/service"
	"github.com/deppfellow/travel-sync/internal/validation"
	"github.com/labstack/echo/v4"
)

type ListExpensesRequest struct {
	TravelPlanID string `query:"travel_plan_id" json:"travel_plan_id" validate:"required"`
}

func (r *ListExpensesRequest) Validate() error {
	return validation.Struct(r)
}

// UpsertExpenseRequest is the full expense record.
type UpsertExpenseRequest struct {
	model.Expense
	keys bodyKeys
}

func (r *UpsertExpenseRequest) UnmarshalJSON(data []byte) error {
	keys, err := decodeRecord(data, &r.Expense)
	if err != nil {
		return err
	}
	r.keys = keys
	return nil
}

func (r *UpsertExpenseRequest) Validate() error {
	return validateRecord(r, r.keys, model.ExpenseBodyRules)
}

type ExpenseHandler struct {
	Handler
	expenses *service.ExpenseService
}

func NewExpenseHandler(s *server.Server, expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		Handler:  NewHandler(s),
		expenses: expenses,
	}
}

func (h *ExpenseHandler) List(c echo.Context, req *ListExpensesRequest) ([]model.Expense, error) {
	return h.expenses.List(c.Request().Context(), req.TravelPlanID)
}

func (h *ExpenseHandler) Upsert(c echo.Context, req *UpsertExpenseRequest) (*OKResponse, error) {
	if err := h.expenses.Upsert(c.Request().Context(), &req.Expense); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func (h *ExpenseHandler) Patch(c echo.Context, req *PatchRequest) (*OKResponse, error) {
	if err := h.expenses.Patch(c.Request().Context(), req.ID, req.Updates); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func (h *ExpenseHandler) Delete(c echo.Context, req *DeleteRequest) (*OKResponse, error) {
	if err := h.expenses.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return okResponse, nil
}

func (h *ExpenseHandler) ListRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.List, http.StatusOK, &ListExpensesRequest{})
}

func (h *ExpenseHandler) UpsertRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Upsert, http.StatusOK, &UpsertExpenseRequest{})
}

func (h *ExpenseHandler) PatchRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Patch, http.StatusOK, &PatchRequest{})
}

func (h *ExpenseHandler) DeleteRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Delete, http.StatusOK, &DeleteRequest{})
}
