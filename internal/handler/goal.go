package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/ctxkeys"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/scheduler"
	"github.com/mintreplica/mintlite/internal/service"
)

type GoalHandler struct {
	goalService   *service.GoalService
	exportService *service.ExportService
}

func NewGoalHandler(goalService *service.GoalService, exportService *service.ExportService) *GoalHandler {
	return &GoalHandler{
		goalService:   goalService,
		exportService: exportService,
	}
}

type createGoalRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    Date            `json:"targetDate"`
}

type updateGoalRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type progressRequest struct {
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
}

type goalEventsResponse struct {
	Goal   *model.Goal   `json:"goal"`
	Events []model.Event `json:"events"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "recent"
	}

	goals, err := h.goalService.Goals(r.Context(), userID, sortBy)
	if err != nil {
		writeServiceError(w, r, err, "failed to load goals")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goal, err := h.goalService.ByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req createGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create goal")
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, service.CreateGoalInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate.Time,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to create goal")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, goal)
}

// Update changes name, description and category. Amounts go through UpdateProgress.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req updateGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update goal")
		return
	}

	goal, err := h.goalService.Update(r.Context(), userID, r.PathValue("id"), service.UpdateGoalInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to update goal")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req progressRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update progress")
		return
	}
	if req.CurrentAmount == nil {
		middleware.WriteError(w, http.StatusBadRequest, "currentAmount is required")
		return
	}

	goal, events, err := h.goalService.UpdateProgress(r.Context(), userID, r.PathValue("id"), *req.CurrentAmount)
	if err != nil {
		writeServiceError(w, r, err, "failed to update progress")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, goalEventsResponse{Goal: goal, Events: events})
}

func (h *GoalHandler) CheckDeadline(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goal, events, err := h.goalService.CheckDeadline(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to check deadline")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, goalEventsResponse{Goal: goal, Events: events})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.goalService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	result, err := h.exportService.Export(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to export goals")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// JobRunner runs one pass of the scheduled job.
type JobRunner interface {
	Run(ctx context.Context) (*scheduler.Result, error)
}

// DeadlineHandler triggers the scheduled job for every user. The route is operator only.
type DeadlineHandler struct {
	jobs JobRunner
}

func NewDeadlineHandler(jobs JobRunner) *DeadlineHandler {
	return &DeadlineHandler{jobs: jobs}
}

func (h *DeadlineHandler) CheckAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.jobs.Run(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to check deadlines")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}
