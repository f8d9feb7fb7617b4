package model

import "time"

// NotificationPreferences is the stored form of a user's notification settings.
type NotificationPreferences struct {
	UserID            string    `db:"user_id" json:"userId"`
	Email             string    `db:"email" json:"email"`
	ProgressEnabled   bool      `db:"progress_enabled" json:"progressEnabled"`
	CompletionEnabled bool      `db:"completion_enabled" json:"completionEnabled"`
	DeadlineEnabled   bool      `db:"deadline_enabled" json:"deadlineEnabled"`
	BudgetEnabled     bool      `db:"budget_enabled" json:"budgetEnabled"`
	EmailEnabled      bool      `db:"email_enabled" json:"emailEnabled"`
	EmailMinPriority  string    `db:"email_min_priority" json:"emailMinPriority"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// DefaultNotificationPreferences enables every in-app notification and keeps email off.
func DefaultNotificationPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:            userID,
		ProgressEnabled:   true,
		CompletionEnabled: true,
		DeadlineEnabled:   true,
		BudgetEnabled:     true,
		EmailEnabled:      false,
		EmailMinPriority:  PriorityHigh,
		UpdatedAt:         time.Now(),
	}
}
