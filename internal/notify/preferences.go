// Package notify decides which tracker events reach a user.
package notify

import "github.com/mintreplica/mintlite/internal/model"

// Preferences is an immutable snapshot of a user's notification settings. It is passed
// explicitly to Filter and WantsEmail; nothing here reads global state.
type Preferences struct {
	progress   bool
	completion bool
	deadline   bool
	budget     bool

	email            string
	emailEnabled     bool
	emailMinPriority string
}

// FromModel snapshots stored preferences. A nil value yields the defaults.
func FromModel(p *model.NotificationPreferences) Preferences {
	if p == nil {
		p = model.DefaultNotificationPreferences("")
	}
	minPriority := p.EmailMinPriority
	if !model.IsPriority(minPriority) {
		minPriority = model.PriorityHigh
	}
	return Preferences{
		progress:         p.ProgressEnabled,
		completion:       p.CompletionEnabled,
		deadline:         p.DeadlineEnabled,
		budget:           p.BudgetEnabled,
		email:            p.Email,
		emailEnabled:     p.EmailEnabled,
		emailMinPriority: minPriority,
	}
}

// Allows reports whether the user wants the event stored as an in-app notification.
func (p Preferences) Allows(ev model.Event) bool {
	switch ev.Type {
	case model.EventGoalProgress:
		return p.progress
	case model.EventGoalCompleted:
		return p.completion
	case model.EventGoalDeadlineApproaching, model.EventGoalOverdue:
		return p.deadline
	case model.EventBudgetThreshold, model.EventBudgetExceeded:
		return p.budget
	default:
		return false
	}
}

// WantsEmail reports whether the event should also go out by email.
func (p Preferences) WantsEmail(ev model.Event) bool {
	if !p.emailEnabled || p.email == "" {
		return false
	}
	return p.Allows(ev) && model.PriorityAtLeast(ev.Priority, p.emailMinPriority)
}

func (p Preferences) Email() string {
	return p.email
}

// Filter keeps the events the preferences allow, preserving order.
func Filter(p Preferences, events []model.Event) []model.Event {
	var kept []model.Event
	for _, ev := range events {
		if p.Allows(ev) {
			kept = append(kept, ev)
		}
	}
	return kept
}
