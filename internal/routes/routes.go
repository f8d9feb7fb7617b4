package routes

import (
	"net/http"
	"time"

	"github.com/mintreplica/mintlite/internal/app"
	"github.com/mintreplica/mintlite/internal/handler"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/service"
)

// SetupRoutes builds the HTTP handler. The returned limiter must be stopped on shutdown.
func SetupRoutes(app *app.App) (http.Handler, *middleware.RateLimiter) {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService, app.ExportService)
	deadlines := handler.NewDeadlineHandler(app.Scheduler)
	budget := handler.NewBudgetHandler(app.BudgetService)
	notification := handler.NewNotificationHandler(app.NotificationService)
	preferences := handler.NewPreferencesHandler(app.PreferencesService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)

	auth := middleware.RequireAuth(app.AuthService)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// The deadline job touches every user's goals
	operator := middleware.RequireRole(service.RoleOperator)
	jobLimiter := middleware.NewRateLimiter(5, time.Minute)
	jobLimit := middleware.RateLimit(jobLimiter)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Goals
	mux.Handle("GET /api/goals", protected(goal.List))
	mux.Handle("POST /api/goals", protected(goal.Create))
	mux.Handle("POST /api/goals/check-deadlines", auth(operator(jobLimit(http.HandlerFunc(deadlines.CheckAll)))))
	mux.Handle("POST /api/goals/export", protected(goal.Export))
	mux.Handle("GET /api/goals/{id}", protected(goal.Get))
	mux.Handle("PUT /api/goals/{id}", protected(goal.Update))
	mux.Handle("PATCH /api/goals/{id}", protected(goal.UpdateProgress))
	mux.Handle("DELETE /api/goals/{id}", protected(goal.Delete))
	mux.Handle("POST /api/goals/{id}/deadline-check", protected(goal.CheckDeadline))

	// Budgets
	mux.Handle("GET /api/budgets", protected(budget.List))
	mux.Handle("POST /api/budgets", protected(budget.Create))
	mux.Handle("GET /api/budgets/{id}", protected(budget.Get))
	mux.Handle("DELETE /api/budgets/{id}", protected(budget.Delete))
	mux.Handle("POST /api/budgets/{id}/spending", protected(budget.RecordSpending))
	mux.Handle("POST /api/budgets/{id}/archive", protected(budget.Archive))

	// Notifications
	mux.Handle("GET /api/notifications", protected(notification.List))
	mux.Handle("POST /api/notifications/{id}/read", protected(notification.MarkRead))

	// Preferences
	mux.Handle("GET /api/preferences", protected(preferences.Get))
	mux.Handle("PUT /api/preferences", protected(preferences.Update))

	// Dashboard
	mux.Handle("GET /api/dashboard", protected(dashboard.Dashboard))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID, // Request ID first so every later log line carries it
		middleware.RequestLogging,
		middleware.Recovery,
	)

	return handler, jobLimiter
}
