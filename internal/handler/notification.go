package handler

import (
	"net/http"
	"strconv"

	"github.com/mintreplica/mintlite/internal/ctxkeys"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications, newest first. Filters: type, goalId, budgetId,
// unread, limit.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	query := r.URL.Query()

	q := service.NotificationQuery{
		Type:     query.Get("type"),
		GoalID:   query.Get("goalId"),
		BudgetID: query.Get("budgetId"),
	}

	if unread := query.Get("unread"); unread != "" {
		v, err := strconv.ParseBool(unread)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "unread must be a boolean")
			return
		}
		q.UnreadOnly = v
	}
	if limit := query.Get("limit"); limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil || v < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = v
	}

	notifications, err := h.notificationService.Notifications(r.Context(), userID, q)
	if err != nil {
		writeServiceError(w, r, err, "failed to load notifications")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.notificationService.MarkRead(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
