package notify

import (
	"testing"

	"github.com/mintreplica/mintlite/internal/model"
)

func events() []model.Event {
	return []model.Event{
		{Type: model.EventGoalProgress, Priority: model.PriorityLow},
		{Type: model.EventGoalCompleted, Priority: model.PriorityHigh},
		{Type: model.EventGoalDeadlineApproaching, Priority: model.PriorityMedium},
		{Type: model.EventGoalOverdue, Priority: model.PriorityHigh},
		{Type: model.EventBudgetThreshold, Priority: model.PriorityMedium},
		{Type: model.EventBudgetExceeded, Priority: model.PriorityHigh},
	}
}

func TestFilter_DefaultsKeepEverything(t *testing.T) {
	got := Filter(FromModel(nil), events())
	if len(got) != 6 {
		t.Fatalf("kept %d events, want 6", len(got))
	}
}

func TestFilter_CompletionOnly(t *testing.T) {
	stored := model.DefaultNotificationPreferences("user-1")
	stored.ProgressEnabled = false
	stored.DeadlineEnabled = false
	stored.BudgetEnabled = false

	got := Filter(FromModel(stored), events())
	if len(got) != 1 || got[0].Type != model.EventGoalCompleted {
		t.Fatalf("kept %+v, want only GOAL_COMPLETED", got)
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	stored := model.DefaultNotificationPreferences("user-1")
	stored.CompletionEnabled = false

	got := Filter(FromModel(stored), events())
	want := []string{
		model.EventGoalProgress,
		model.EventGoalDeadlineApproaching,
		model.EventGoalOverdue,
		model.EventBudgetThreshold,
		model.EventBudgetExceeded,
	}
	if len(got) != len(want) {
		t.Fatalf("kept %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Type != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i].Type, want[i])
		}
	}
}

func TestFilter_UnknownTypeDropped(t *testing.T) {
	got := Filter(FromModel(nil), []model.Event{{Type: "SOMETHING_ELSE"}})
	if len(got) != 0 {
		t.Fatalf("kept %+v, want nothing", got)
	}
}

func TestWantsEmail(t *testing.T) {
	stored := model.DefaultNotificationPreferences("user-1")
	stored.Email = "saver@example.com"
	stored.EmailEnabled = true
	stored.EmailMinPriority = model.PriorityMedium
	stored.BudgetEnabled = false
	prefs := FromModel(stored)

	tests := []struct {
		ev   model.Event
		want bool
	}{
		{model.Event{Type: model.EventGoalProgress, Priority: model.PriorityLow}, false},
		{model.Event{Type: model.EventGoalCompleted, Priority: model.PriorityHigh}, true},
		{model.Event{Type: model.EventGoalDeadlineApproaching, Priority: model.PriorityMedium}, true},
		{model.Event{Type: model.EventBudgetExceeded, Priority: model.PriorityHigh}, false},
	}
	for _, tt := range tests {
		if got := prefs.WantsEmail(tt.ev); got != tt.want {
			t.Errorf("WantsEmail(%s) = %v, want %v", tt.ev.Type, got, tt.want)
		}
	}
}

func TestWantsEmail_RequiresAddressAndOptIn(t *testing.T) {
	ev := model.Event{Type: model.EventGoalCompleted, Priority: model.PriorityHigh}

	noAddress := model.DefaultNotificationPreferences("user-1")
	noAddress.EmailEnabled = true
	if FromModel(noAddress).WantsEmail(ev) {
		t.Fatal("WantsEmail true without an address")
	}

	optedOut := model.DefaultNotificationPreferences("user-1")
	optedOut.Email = "saver@example.com"
	if FromModel(optedOut).WantsEmail(ev) {
		t.Fatal("WantsEmail true with email disabled")
	}
}

func TestFromModel_InvalidPriorityFallsBackToHigh(t *testing.T) {
	stored := model.DefaultNotificationPreferences("user-1")
	stored.Email = "saver@example.com"
	stored.EmailEnabled = true
	stored.EmailMinPriority = "URGENT"
	prefs := FromModel(stored)

	if prefs.WantsEmail(model.Event{Type: model.EventGoalDeadlineApproaching, Priority: model.PriorityMedium}) {
		t.Fatal("MEDIUM event emailed with invalid min priority")
	}
	if !prefs.WantsEmail(model.Event{Type: model.EventGoalOverdue, Priority: model.PriorityHigh}) {
		t.Fatal("HIGH event not emailed with invalid min priority")
	}
}
