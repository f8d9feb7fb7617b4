package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/ctxkeys"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/service"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
}

func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

type budgetCategoryRequest struct {
	Name            string          `json:"name"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
}

type createBudgetRequest struct {
	Name        string                  `json:"name"`
	Period      string                  `json:"period"`
	TotalAmount decimal.Decimal         `json:"totalAmount"`
	StartDate   Date                    `json:"startDate"`
	EndDate     Date                    `json:"endDate"`
	Categories  []budgetCategoryRequest `json:"categories"`
}

type createBudgetResponse struct {
	Budget   *model.Budget `json:"budget"`
	Warnings []string      `json:"warnings"`
}

type spendingRequest struct {
	Category string           `json:"category"`
	Delta    *decimal.Decimal `json:"delta"`
}

type budgetEventsResponse struct {
	Budget *model.Budget `json:"budget"`
	Events []model.Event `json:"events"`
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req createBudgetRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create budget")
		return
	}

	in := service.CreateBudgetInput{
		Name:        req.Name,
		Period:      req.Period,
		TotalAmount: req.TotalAmount,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
	}
	for _, c := range req.Categories {
		in.Categories = append(in.Categories, service.BudgetCategoryInput{
			Name:            c.Name,
			AllocatedAmount: c.AllocatedAmount,
		})
	}

	budget, warnings, err := h.budgetService.Create(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, r, err, "failed to create budget")
		return
	}
	if warnings == nil {
		warnings = []string{}
	}

	middleware.WriteJSON(w, http.StatusCreated, createBudgetResponse{Budget: budget, Warnings: warnings})
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	budgets, err := h.budgetService.Budgets(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load budgets")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, budgets)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	budget, err := h.budgetService.ByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) RecordSpending(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req spendingRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to record spending")
		return
	}
	if req.Delta == nil {
		middleware.WriteError(w, http.StatusBadRequest, "delta is required")
		return
	}

	budget, events, err := h.budgetService.RecordSpending(r.Context(), userID, r.PathValue("id"), req.Category, *req.Delta)
	if err != nil {
		writeServiceError(w, r, err, "failed to record spending")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, budgetEventsResponse{Budget: budget, Events: events})
}

func (h *BudgetHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	budget, err := h.budgetService.Archive(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to archive budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.budgetService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to delete budget")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
