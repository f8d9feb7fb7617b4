package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newGoal(target, current string, targetDate time.Time, status string) model.Goal {
	return model.Goal{
		ID:            "goal-1",
		UserID:        "user-1",
		Name:          "Emergency fund",
		TargetAmount:  dec(target),
		CurrentAmount: dec(current),
		TargetDate:    targetDate,
		Category:      model.GoalCategoryEmergencyFund,
		Status:        status,
		CreatedAt:     testNow.AddDate(0, -1, 0),
		UpdatedAt:     testNow.AddDate(0, -1, 0),
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		amount, target, want string
	}{
		{"500", "1000", "50"},
		{"750", "1000", "75"},
		{"0", "1000", "0"},
		{"1500", "1000", "100"},
		{"1", "3", "33.33"},
		{"2", "3", "66.67"},
		{"0.125", "1", "12.5"},
		{"100", "0", "0"},
	}

	for _, tt := range tests {
		got := Percentage(dec(tt.amount), dec(tt.target))
		if !got.Equal(dec(tt.want)) {
			t.Errorf("Percentage(%s, %s) = %s, want %s", tt.amount, tt.target, got, tt.want)
		}
	}
}

func TestSpentPercentage_Uncapped(t *testing.T) {
	if got := SpentPercentage(dec("1250"), dec("1000")); !got.Equal(dec("125")) {
		t.Fatalf("SpentPercentage = %s, want 125", got)
	}
	if got := SpentPercentage(dec("10"), dec("0")); !got.IsZero() {
		t.Fatalf("SpentPercentage with zero total = %s, want 0", got)
	}
}

func TestPercentage_BankersRounding(t *testing.T) {
	// 0.00125 * 100 = 0.125 -> 0.12 half-to-even, 0.00375 * 100 = 0.375 -> 0.38
	if got := Percentage(dec("0.00125"), dec("1")); !got.Equal(dec("0.12")) {
		t.Fatalf("Percentage rounds 0.125 to %s, want 0.12", got)
	}
	if got := Percentage(dec("0.00375"), dec("1")); !got.Equal(dec("0.38")) {
		t.Fatalf("Percentage rounds 0.375 to %s, want 0.38", got)
	}
}

func TestUpdateProgress_HalfwayEmitsSingleProgressEvent(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "0", testNow.AddDate(0, 3, 0), model.GoalStatusNotStarted)

	updated, events, err := tr.UpdateProgress(goal, dec("500"), testNow)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.EventGoalProgress {
		t.Fatalf("event type = %s, want %s", ev.Type, model.EventGoalProgress)
	}
	if !ev.Payload.ProgressPercentage.Equal(dec("50")) {
		t.Fatalf("progressPercentage = %s, want 50", ev.Payload.ProgressPercentage)
	}
	if !ev.Payload.PreviousAmount.Equal(dec("0")) || !ev.Payload.CurrentAmount.Equal(dec("500")) {
		t.Fatalf("amounts = %s -> %s, want 0 -> 500", ev.Payload.PreviousAmount, ev.Payload.CurrentAmount)
	}
	if *ev.Payload.IsCompleted {
		t.Fatal("isCompleted = true, want false")
	}
	if ev.Priority != model.PriorityLow {
		t.Fatalf("priority = %s, want LOW", ev.Priority)
	}
	if updated.Status != model.GoalStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", updated.Status)
	}
	if updated.CompletedAt != nil {
		t.Fatal("completedAt set on unfinished goal")
	}
	if !updated.UpdatedAt.Equal(testNow) {
		t.Fatalf("updatedAt = %v, want %v", updated.UpdatedAt, testNow)
	}
}

func TestUpdateProgress_SeventyFivePercent(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "500", testNow.AddDate(0, 3, 0), model.GoalStatusInProgress)

	_, events, err := tr.UpdateProgress(goal, dec("750"), testNow)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if len(events) != 1 || events[0].Type != model.EventGoalProgress {
		t.Fatalf("events = %+v, want a single GOAL_PROGRESS", events)
	}
	if !events[0].Payload.ProgressPercentage.Equal(dec("75")) {
		t.Fatalf("progressPercentage = %s, want 75", events[0].Payload.ProgressPercentage)
	}
}

func TestUpdateProgress_ReachingTargetCompletes(t *testing.T) {
	tr := New(DefaultConfig())

	for _, status := range []string{
		model.GoalStatusNotStarted,
		model.GoalStatusInProgress,
		model.GoalStatusOnTrack,
		model.GoalStatusAtRisk,
		model.GoalStatusOverdue,
	} {
		goal := newGoal("1000", "400", testNow.AddDate(0, 0, -5), status)

		updated, events, err := tr.UpdateProgress(goal, goal.TargetAmount, testNow)
		if err != nil {
			t.Fatalf("%s: UpdateProgress: %v", status, err)
		}
		if updated.Status != model.GoalStatusCompleted {
			t.Fatalf("%s: status = %s, want COMPLETED", status, updated.Status)
		}
		if updated.CompletedAt == nil || !updated.CompletedAt.Equal(testNow) {
			t.Fatalf("%s: completedAt = %v, want %v", status, updated.CompletedAt, testNow)
		}
		if len(events) != 2 {
			t.Fatalf("%s: events len = %d, want 2", status, len(events))
		}
		if events[0].Type != model.EventGoalProgress || !*events[0].Payload.IsCompleted {
			t.Fatalf("%s: first event = %+v, want GOAL_PROGRESS with isCompleted", status, events[0])
		}
		if events[1].Type != model.EventGoalCompleted {
			t.Fatalf("%s: second event = %s, want GOAL_COMPLETED", status, events[1].Type)
		}
		if !events[1].Payload.AchievedAmount.Equal(dec("1000")) {
			t.Fatalf("%s: achievedAmount = %s, want 1000", status, events[1].Payload.AchievedAmount)
		}
		if events[1].DedupeKey != "completed:goal-1" {
			t.Fatalf("%s: dedupe key = %q", status, events[1].DedupeKey)
		}
		if events[1].Priority != model.PriorityHigh {
			t.Fatalf("%s: priority = %s, want HIGH", status, events[1].Priority)
		}
	}
}

func TestUpdateProgress_OverTargetCapsPercentage(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "900", testNow.AddDate(0, 1, 0), model.GoalStatusInProgress)

	updated, events, err := tr.UpdateProgress(goal, dec("1250"), testNow)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if !updated.CurrentAmount.Equal(dec("1250")) {
		t.Fatalf("currentAmount = %s, want 1250", updated.CurrentAmount)
	}
	if !events[0].Payload.ProgressPercentage.Equal(dec("100")) {
		t.Fatalf("progressPercentage = %s, want 100", events[0].Payload.ProgressPercentage)
	}
}

func TestUpdateProgress_CompletedIsSticky(t *testing.T) {
	tr := New(DefaultConfig())
	completedAt := testNow.AddDate(0, 0, -10)
	goal := newGoal("1000", "1000", testNow.AddDate(0, 1, 0), model.GoalStatusCompleted)
	goal.CompletedAt = &completedAt

	for _, amount := range []string{"1000", "1500", "100000"} {
		updated, events, err := tr.UpdateProgress(goal, dec(amount), testNow)
		if err != nil {
			t.Fatalf("UpdateProgress(%s): %v", amount, err)
		}
		if len(events) != 0 {
			t.Fatalf("UpdateProgress(%s) emitted %d events, want 0", amount, len(events))
		}
		if updated.Status != model.GoalStatusCompleted {
			t.Fatalf("status = %s, want COMPLETED", updated.Status)
		}
		if !updated.CompletedAt.Equal(completedAt) {
			t.Fatalf("completedAt moved to %v", updated.CompletedAt)
		}
		if !updated.CurrentAmount.Equal(goal.CurrentAmount) {
			t.Fatalf("currentAmount changed to %s", updated.CurrentAmount)
		}
	}
}

func TestUpdateProgress_NegativeAmountIsInvalid(t *testing.T) {
	tr := New(DefaultConfig())
	goals := []model.Goal{
		newGoal("1000", "0", testNow.AddDate(0, 1, 0), model.GoalStatusNotStarted),
		newGoal("1000", "1000", testNow.AddDate(0, 1, 0), model.GoalStatusCompleted),
		newGoal("1000", "10", testNow.AddDate(0, -1, 0), model.GoalStatusOverdue),
	}

	for _, goal := range goals {
		_, events, err := tr.UpdateProgress(goal, dec("-1"), testNow)
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Fatalf("%s: err = %v, want InvalidArgument", goal.Status, err)
		}
		if events != nil {
			t.Fatalf("%s: events = %v, want none", goal.Status, events)
		}
	}
}

func TestUpdateProgress_MalformedGoal(t *testing.T) {
	tr := New(DefaultConfig())

	zeroTarget := newGoal("0", "0", testNow.AddDate(0, 1, 0), model.GoalStatusNotStarted)
	if _, _, err := tr.UpdateProgress(zeroTarget, dec("10"), testNow); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("zero target err = %v, want ErrInvalidTarget", err)
	}

	noDate := newGoal("100", "0", time.Time{}, model.GoalStatusNotStarted)
	if _, _, err := tr.UpdateProgress(noDate, dec("10"), testNow); !errors.Is(err, ErrMissingTargetDate) {
		t.Fatalf("missing date err = %v, want ErrMissingTargetDate", err)
	}
}

func TestUpdateProgress_DoesNotMutateInput(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "100", testNow.AddDate(0, 1, 0), model.GoalStatusInProgress)

	_, _, err := tr.UpdateProgress(goal, dec("1000"), testNow)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if goal.Status != model.GoalStatusInProgress || goal.CompletedAt != nil || !goal.CurrentAmount.Equal(dec("100")) {
		t.Fatalf("input goal was mutated: %+v", goal)
	}
}

func TestUpdateProgress_StatusTransitions(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		amount string
		due    time.Time
		want   string
	}{
		{"zero stays not started", DefaultConfig(), "0", testNow.AddDate(0, 2, 0), model.GoalStatusNotStarted},
		{"first deposit starts", DefaultConfig(), "1", testNow.AddDate(0, 2, 0), model.GoalStatusInProgress},
		{"high percentage alone is not at risk", DefaultConfig(), "950", testNow.AddDate(0, 2, 0), model.GoalStatusInProgress},
		{"past deadline is overdue", DefaultConfig(), "500", testNow.Add(-time.Minute), model.GoalStatusOverdue},
		{"exactly at deadline is not overdue", DefaultConfig(), "500", testNow, model.GoalStatusInProgress},
		{"on track when configured", Config{OnTrackPercent: dec("50")}, "500", testNow.AddDate(0, 2, 0), model.GoalStatusOnTrack},
		{"below on track threshold", Config{OnTrackPercent: dec("50")}, "499", testNow.AddDate(0, 2, 0), model.GoalStatusInProgress},
		{"at risk near deadline when configured", Config{AtRiskDays: 7, OnTrackPercent: dec("10")}, "500", testNow.AddDate(0, 0, 5), model.GoalStatusAtRisk},
		{"outside at risk window", Config{AtRiskDays: 7}, "500", testNow.AddDate(0, 0, 30), model.GoalStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.cfg)
			goal := newGoal("1000", "0", tt.due, model.GoalStatusNotStarted)

			updated, _, err := tr.UpdateProgress(goal, dec(tt.amount), testNow)
			if err != nil {
				t.Fatalf("UpdateProgress: %v", err)
			}
			if updated.Status != tt.want {
				t.Fatalf("status = %s, want %s", updated.Status, tt.want)
			}
		})
	}
}

func TestUpdateProgress_SequenceCompletesOnce(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "0", testNow.AddDate(0, 1, 0), model.GoalStatusNotStarted)

	completions := 0
	for i, amount := range []string{"200", "600", "999.99", "1000", "1200", "1500"} {
		now := testNow.Add(time.Duration(i) * time.Hour)
		next, events, err := tr.UpdateProgress(goal, dec(amount), now)
		if err != nil {
			t.Fatalf("UpdateProgress(%s): %v", amount, err)
		}
		for _, ev := range events {
			if ev.Type == model.EventGoalCompleted {
				completions++
			}
		}
		goal = next
	}

	if completions != 1 {
		t.Fatalf("GOAL_COMPLETED fired %d times, want 1", completions)
	}
	if !goal.CurrentAmount.Equal(dec("1000")) {
		t.Fatalf("final amount = %s, want 1000 (frozen at completion)", goal.CurrentAmount)
	}
}

func TestCheckDeadlines_Approaching(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "400", testNow.AddDate(0, 0, 2), model.GoalStatusInProgress)

	updated, events, err := tr.CheckDeadlines(goal, testNow)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.EventGoalDeadlineApproaching {
		t.Fatalf("event type = %s, want GOAL_DEADLINE_APPROACHING", ev.Type)
	}
	if *ev.Payload.DaysRemaining != 2 {
		t.Fatalf("daysRemaining = %d, want 2", *ev.Payload.DaysRemaining)
	}
	if !ev.Payload.RemainingAmount.Equal(dec("600")) {
		t.Fatalf("remainingAmount = %s, want 600", ev.Payload.RemainingAmount)
	}
	if !ev.Payload.CurrentProgress.Equal(dec("40")) {
		t.Fatalf("currentProgress = %s, want 40", ev.Payload.CurrentProgress)
	}
	if ev.DedupeKey != "deadline:goal-1:2" {
		t.Fatalf("dedupe key = %q", ev.DedupeKey)
	}
	if updated.Status != model.GoalStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", updated.Status)
	}
}

func TestCheckDeadlines_WindowBoundaries(t *testing.T) {
	tr := New(DefaultConfig())

	tests := []struct {
		name      string
		due       time.Time
		wantEvent bool
		wantDays  int
	}{
		{"exactly three days", testNow.AddDate(0, 0, 3), true, 3},
		{"just over three days", testNow.AddDate(0, 0, 4).Add(-time.Hour), true, 3},
		{"four days", testNow.AddDate(0, 0, 4), false, 0},
		{"due now", testNow, true, 0},
		{"due in an hour", testNow.Add(time.Hour), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := newGoal("1000", "100", tt.due, model.GoalStatusInProgress)
			_, events, err := tr.CheckDeadlines(goal, testNow)
			if err != nil {
				t.Fatalf("CheckDeadlines: %v", err)
			}
			if !tt.wantEvent {
				if len(events) != 0 {
					t.Fatalf("events = %+v, want none", events)
				}
				return
			}
			if len(events) != 1 || events[0].Type != model.EventGoalDeadlineApproaching {
				t.Fatalf("events = %+v, want one GOAL_DEADLINE_APPROACHING", events)
			}
			if *events[0].Payload.DaysRemaining != tt.wantDays {
				t.Fatalf("daysRemaining = %d, want %d", *events[0].Payload.DaysRemaining, tt.wantDays)
			}
		})
	}
}

func TestCheckDeadlines_Overdue(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "250", testNow.AddDate(0, 0, -1), model.GoalStatusInProgress)

	updated, events, err := tr.CheckDeadlines(goal, testNow)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
	if events[0].Type != model.EventGoalOverdue {
		t.Fatalf("event type = %s, want GOAL_OVERDUE", events[0].Type)
	}
	if *events[0].Payload.DaysOverdue != 1 {
		t.Fatalf("daysOverdue = %d, want 1", *events[0].Payload.DaysOverdue)
	}
	if events[0].Payload.DaysRemaining != nil {
		t.Fatal("overdue event carries daysRemaining")
	}
	if updated.Status != model.GoalStatusOverdue {
		t.Fatalf("status = %s, want OVERDUE", updated.Status)
	}
	if !updated.UpdatedAt.Equal(testNow) {
		t.Fatalf("updatedAt = %v, want %v", updated.UpdatedAt, testNow)
	}
}

func TestCheckDeadlines_OverdueFloorsDays(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "0", testNow.Add(-47*time.Hour), model.GoalStatusOverdue)

	updated, events, err := tr.CheckDeadlines(goal, testNow)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if *events[0].Payload.DaysOverdue != 1 {
		t.Fatalf("daysOverdue = %d, want 1", *events[0].Payload.DaysOverdue)
	}
	if !updated.UpdatedAt.Equal(goal.UpdatedAt) {
		t.Fatal("updatedAt changed although status was already OVERDUE")
	}
}

func TestCheckDeadlines_CompletedGoalIsQuiet(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "1000", testNow.AddDate(0, 0, -3), model.GoalStatusCompleted)

	updated, events, err := tr.CheckDeadlines(goal, testNow)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
	if updated.Status != model.GoalStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", updated.Status)
	}
}

func TestCheckDeadlines_FarAwayIsQuiet(t *testing.T) {
	tr := New(DefaultConfig())
	goal := newGoal("1000", "10", testNow.AddDate(0, 2, 0), model.GoalStatusInProgress)

	_, events, err := tr.CheckDeadlines(goal, testNow)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
}

func TestCheckDeadlines_CustomWindow(t *testing.T) {
	tr := New(Config{WarningDays: 10})
	goal := newGoal("1000", "10", testNow.AddDate(0, 0, 9), model.GoalStatusInProgress)

	_, events, err := tr.CheckDeadlines(goal, testNow)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if len(events) != 1 || *events[0].Payload.DaysRemaining != 9 {
		t.Fatalf("events = %+v, want one approaching event with 9 days", events)
	}
}

func TestStatus_IgnoresStoredStatus(t *testing.T) {
	tr := New(DefaultConfig())

	goal := newGoal("1000", "0", testNow.AddDate(0, 1, 0), model.GoalStatusOverdue)
	if got := tr.Status(goal, testNow); got != model.GoalStatusNotStarted {
		t.Fatalf("Status = %s, want NOT_STARTED", got)
	}

	goal.CurrentAmount = dec("1000")
	if got := tr.Status(goal, testNow); got != model.GoalStatusCompleted {
		t.Fatalf("Status = %s, want COMPLETED", got)
	}
}

func TestDateOnlyTargetCoversWholeDay(t *testing.T) {
	tr := New(DefaultConfig())
	today := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)

	goal := newGoal("1000", "0", today, model.GoalStatusNotStarted)
	if status := tr.Status(goal, testNow); status != model.GoalStatusNotStarted {
		t.Fatalf("status on the target day = %s, want NOT_STARTED", status)
	}

	updated, _, err := tr.UpdateProgress(goal, dec("10"), testNow)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if updated.Status != model.GoalStatusInProgress {
		t.Fatalf("status after deposit = %s, want IN_PROGRESS", updated.Status)
	}

	lastMinute := today.Add(24*time.Hour - time.Minute)
	for _, now := range []time.Time{today, testNow, lastMinute} {
		_, events, err := tr.CheckDeadlines(goal, now)
		if err != nil {
			t.Fatalf("CheckDeadlines: %v", err)
		}
		if len(events) != 1 || events[0].Type != model.EventGoalDeadlineApproaching {
			t.Fatalf("at %v: events = %+v, want one GOAL_DEADLINE_APPROACHING", now, events)
		}
		if *events[0].Payload.DaysRemaining != 0 {
			t.Fatalf("at %v: daysRemaining = %d, want 0", now, *events[0].Payload.DaysRemaining)
		}
	}

	tomorrow := newGoal("1000", "0", today.AddDate(0, 0, 1), model.GoalStatusNotStarted)
	_, events, _ := tr.CheckDeadlines(tomorrow, testNow)
	if len(events) != 1 || *events[0].Payload.DaysRemaining != 1 {
		t.Fatalf("due tomorrow: events = %+v, want daysRemaining 1", events)
	}

	nextDay := today.Add(24*time.Hour + time.Minute)
	updated, events, err = tr.CheckDeadlines(goal, nextDay)
	if err != nil {
		t.Fatalf("CheckDeadlines: %v", err)
	}
	if updated.Status != model.GoalStatusOverdue {
		t.Fatalf("status the day after = %s, want OVERDUE", updated.Status)
	}
	if len(events) != 1 || events[0].Type != model.EventGoalOverdue || *events[0].Payload.DaysOverdue != 1 {
		t.Fatalf("day after: events = %+v, want GOAL_OVERDUE with daysOverdue 1", events)
	}
}
