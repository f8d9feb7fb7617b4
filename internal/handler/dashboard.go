package handler

import (
	"net/http"

	"github.com/mintreplica/mintlite/internal/ctxkeys"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	dashboard, err := h.dashboardService.Dashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load dashboard")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dashboard)
}
