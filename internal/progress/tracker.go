// Package progress computes goal and budget state transitions and the events they produce.
//
// Every function here is pure: it takes a snapshot, returns a new snapshot plus the
// events to emit, and never touches storage. Callers persist the result and forward the
// events, and must serialize updates per entity so the snapshot they pass in is the last
// committed one.
package progress

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/model"
)

// Tracker is safe for concurrent use; it only holds immutable configuration.
type Tracker struct {
	cfg Config
}

func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg.normalize()}
}

func (t *Tracker) Config() Config {
	return t.cfg
}

// UpdateProgress applies a new current amount to goal.
//
// A goal that is already COMPLETED is returned unchanged with no events. Otherwise one
// GOAL_PROGRESS event is emitted, followed by GOAL_COMPLETED when this call completes
// the goal.
func (t *Tracker) UpdateProgress(goal model.Goal, newAmount decimal.Decimal, now time.Time) (model.Goal, []model.Event, error) {
	if newAmount.IsNegative() {
		return goal, nil, ErrNegativeAmount
	}
	if err := validateGoal(&goal); err != nil {
		return goal, nil, err
	}

	if goal.IsCompleted() {
		return goal, nil, nil
	}

	previous := goal.CurrentAmount
	updated := goal
	updated.CurrentAmount = newAmount
	updated.Status = t.status(goal.TargetAmount, newAmount, goal.TargetDate, now)
	updated.UpdatedAt = now
	if updated.IsCompleted() && updated.CompletedAt == nil {
		updated.CompletedAt = timePtr(now)
	}

	percentage := Percentage(newAmount, goal.TargetAmount)

	events := []model.Event{{
		Type:     model.EventGoalProgress,
		UserID:   goal.UserID,
		EntityID: goal.ID,
		Priority: model.PriorityLow,
		Payload: model.EventPayload{
			PreviousAmount:     decimalPtr(previous),
			CurrentAmount:      decimalPtr(newAmount),
			ProgressPercentage: decimalPtr(percentage),
			IsCompleted:        boolPtr(updated.IsCompleted()),
		},
		OccurredAt: now,
	}}

	if updated.IsCompleted() {
		events = append(events, model.Event{
			Type:     model.EventGoalCompleted,
			UserID:   goal.UserID,
			EntityID: goal.ID,
			Priority: model.PriorityHigh,
			Payload: model.EventPayload{
				AchievedAmount:     decimalPtr(newAmount),
				CompletedAt:        timePtr(*updated.CompletedAt),
				ProgressPercentage: decimalPtr(percentage),
			},
			DedupeKey:  "completed:" + goal.ID,
			OccurredAt: now,
		})
	}

	return updated, events, nil
}

// CheckDeadlines evaluates goal against its target date without changing its amount.
//
// Once the target date has passed the goal moves to OVERDUE and GOAL_OVERDUE is emitted.
// Before that, GOAL_DEADLINE_APPROACHING is emitted while the remaining whole days are
// within the warning window. A call never emits both.
func (t *Tracker) CheckDeadlines(goal model.Goal, now time.Time) (model.Goal, []model.Event, error) {
	if err := validateGoal(&goal); err != nil {
		return goal, nil, err
	}
	if goal.IsCompleted() {
		return goal, nil, nil
	}

	updated := goal
	if status := t.status(goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, now); status != goal.Status {
		updated.Status = status
		updated.UpdatedAt = now
	}
	if updated.IsCompleted() {
		if updated.CompletedAt == nil {
			updated.CompletedAt = timePtr(now)
		}
		return updated, nil, nil
	}

	payload := model.EventPayload{
		CurrentProgress: decimalPtr(Percentage(goal.CurrentAmount, goal.TargetAmount)),
		RemainingAmount: decimalPtr(goal.RemainingAmount()),
	}

	if now.After(dueBy(goal.TargetDate)) {
		payload.DaysOverdue = intPtr(wholeDays(goal.TargetDate, now))
		return updated, []model.Event{{
			Type:       model.EventGoalOverdue,
			UserID:     goal.UserID,
			EntityID:   goal.ID,
			Priority:   model.PriorityHigh,
			Payload:    payload,
			DedupeKey:  "overdue:" + goal.ID,
			OccurredAt: now,
		}}, nil
	}

	daysRemaining := wholeDays(now, dueBy(goal.TargetDate))
	if daysRemaining > t.cfg.WarningDays {
		return updated, nil, nil
	}

	payload.DaysRemaining = intPtr(daysRemaining)
	return updated, []model.Event{{
		Type:       model.EventGoalDeadlineApproaching,
		UserID:     goal.UserID,
		EntityID:   goal.ID,
		Priority:   model.PriorityMedium,
		Payload:    payload,
		DedupeKey:  fmt.Sprintf("deadline:%s:%d", goal.ID, daysRemaining),
		OccurredAt: now,
	}}, nil
}

// Status evaluates the status goal would have at now, ignoring its stored status.
func (t *Tracker) Status(goal model.Goal, now time.Time) string {
	return t.status(goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, now)
}

// status is evaluated top to bottom, first match wins.
func (t *Tracker) status(target, amount decimal.Decimal, targetDate, now time.Time) string {
	switch {
	case amount.GreaterThanOrEqual(target):
		return model.GoalStatusCompleted
	case now.After(dueBy(targetDate)):
		return model.GoalStatusOverdue
	case t.cfg.AtRiskDays > 0 && wholeDays(now, dueBy(targetDate)) <= t.cfg.AtRiskDays:
		return model.GoalStatusAtRisk
	case t.cfg.OnTrackPercent.IsPositive() && Percentage(amount, target).GreaterThanOrEqual(t.cfg.OnTrackPercent):
		return model.GoalStatusOnTrack
	case amount.IsPositive():
		return model.GoalStatusInProgress
	default:
		return model.GoalStatusNotStarted
	}
}

// dueBy returns the last instant at which a goal is not yet overdue. A target date
// without a time of day (midnight UTC) covers the whole of that day.
func dueBy(targetDate time.Time) time.Time {
	utc := targetDate.UTC()
	if utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 && utc.Nanosecond() == 0 {
		return utc.Add(24*time.Hour - time.Nanosecond)
	}
	return targetDate
}

func validateGoal(goal *model.Goal) error {
	if !goal.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if goal.TargetDate.IsZero() {
		return ErrMissingTargetDate
	}
	return nil
}
