package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mintreplica/mintlite/internal/config"
	"github.com/mintreplica/mintlite/internal/db"
	"github.com/mintreplica/mintlite/internal/progress"
	"github.com/mintreplica/mintlite/internal/repository"
	"github.com/mintreplica/mintlite/internal/scheduler"
	"github.com/mintreplica/mintlite/internal/service"
	"github.com/mintreplica/mintlite/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Store               *repository.Store
	AuthService         *service.AuthService
	GoalService         *service.GoalService
	BudgetService       *service.BudgetService
	NotificationService *service.NotificationService
	PreferencesService  *service.PreferencesService
	DashboardService    *service.DashboardService
	ExportService       *service.ExportService
	Scheduler           *scheduler.Scheduler
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := NewWithDB(ctx, cfg, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDB wires the services over an already migrated database.
func NewWithDB(ctx context.Context, cfg *config.Config, database *sqlx.DB) (*App, error) {
	store := repository.NewStore(database)

	// Storage
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Email stays off unless enabled; notifications are still stored
	var mailer service.Mailer
	if cfg.EmailNotifications {
		mailer = service.NewEmailService(
			cfg.ResendAPIKey,
			cfg.EmailFrom,
			cfg.AppURL,
			cfg.AppName,
			cfg.IsDevelopment(),
		)
	}

	tracker := progress.New(progress.Config{
		WarningDays:      cfg.DeadlineWarningDays,
		OnTrackPercent:   cfg.OnTrackPercent,
		AtRiskDays:       cfg.AtRiskDays,
		BudgetThresholds: cfg.BudgetThresholds,
	})

	notificationService := service.NewNotificationService(store, mailer)
	goalService := service.NewGoalService(store, tracker, notificationService, cfg.UpdateMaxRetries)
	budgetService := service.NewBudgetService(store, tracker, notificationService, cfg.UpdateMaxRetries)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Store:               store,
		AuthService:         service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry),
		GoalService:         goalService,
		BudgetService:       budgetService,
		NotificationService: notificationService,
		PreferencesService:  service.NewPreferencesService(store),
		DashboardService:    service.NewDashboardService(store, notificationService),
		ExportService:       service.NewExportService(store, exportStorage),
		Scheduler:           scheduler.New(goalService, budgetService, cfg.DeadlineCheckInterval),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
