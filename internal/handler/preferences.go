package handler

import (
	"net/http"

	"github.com/mintreplica/mintlite/internal/ctxkeys"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/service"
)

type PreferencesHandler struct {
	preferencesService *service.PreferencesService
}

func NewPreferencesHandler(preferencesService *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

type preferencesRequest struct {
	Email             string `json:"email"`
	ProgressEnabled   bool   `json:"progressEnabled"`
	CompletionEnabled bool   `json:"completionEnabled"`
	DeadlineEnabled   bool   `json:"deadlineEnabled"`
	BudgetEnabled     bool   `json:"budgetEnabled"`
	EmailEnabled      bool   `json:"emailEnabled"`
	EmailMinPriority  string `json:"emailMinPriority"`
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	prefs, err := h.preferencesService.Preferences(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load preferences")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, prefs)
}

// Update replaces the caller's preferences; omitted toggles are off.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req preferencesRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update preferences")
		return
	}

	prefs, err := h.preferencesService.Update(r.Context(), userID, service.UpdatePreferencesInput{
		Email:             req.Email,
		ProgressEnabled:   req.ProgressEnabled,
		CompletionEnabled: req.CompletionEnabled,
		DeadlineEnabled:   req.DeadlineEnabled,
		BudgetEnabled:     req.BudgetEnabled,
		EmailEnabled:      req.EmailEnabled,
		EmailMinPriority:  req.EmailMinPriority,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to update preferences")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, prefs)
}
