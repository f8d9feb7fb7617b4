package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/mintreplica/mintlite/internal/model"
)

type PreferencesRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *model.NotificationPreferences) error
}

type preferencesRepository struct {
	db sqlx.ExtContext
}

func NewPreferencesRepository(db sqlx.ExtContext) PreferencesRepository {
	return &preferencesRepository{db: db}
}

// ByUserID returns the stored preferences, or the defaults when the user has none.
func (r *preferencesRepository) ByUserID(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	prefs := &model.NotificationPreferences{}
	query := `SELECT * FROM notification_preferences WHERE user_id = $1`

	err := sqlx.GetContext(ctx, r.db, prefs, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultNotificationPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

func (r *preferencesRepository) Upsert(ctx context.Context, prefs *model.NotificationPreferences) error {
	query := `INSERT INTO notification_preferences (user_id, email, progress_enabled, completion_enabled,
	                                                deadline_enabled, budget_enabled, email_enabled,
	                                                email_min_priority, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id) DO UPDATE SET
	              email = excluded.email,
	              progress_enabled = excluded.progress_enabled,
	              completion_enabled = excluded.completion_enabled,
	              deadline_enabled = excluded.deadline_enabled,
	              budget_enabled = excluded.budget_enabled,
	              email_enabled = excluded.email_enabled,
	              email_min_priority = excluded.email_min_priority,
	              updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		prefs.UserID,
		prefs.Email,
		prefs.ProgressEnabled,
		prefs.CompletionEnabled,
		prefs.DeadlineEnabled,
		prefs.BudgetEnabled,
		prefs.EmailEnabled,
		prefs.EmailMinPriority,
		prefs.UpdatedAt,
	)

	return err
}
