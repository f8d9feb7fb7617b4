package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mintreplica/mintlite/internal/model"
)

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// eventTitle turns GOAL_DEADLINE_APPROACHING into "Goal Deadline Approaching".
func eventTitle(eventType string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(eventType), "_", " "))
}

// formatAmount renders money with grouping, e.g. 12,500.00.
func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return "0.00"
	}
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}

func formatPercent(d *decimal.Decimal) string {
	if d == nil {
		return "0%"
	}
	return d.RoundBank(2).String() + "%"
}

func notificationLine(n *model.Notification) string {
	p := n.Payload
	switch n.Type {
	case model.EventGoalProgress:
		return fmt.Sprintf("Your goal moved from %s to %s (%s of target).",
			formatAmount(p.PreviousAmount), formatAmount(p.CurrentAmount), formatPercent(p.ProgressPercentage))
	case model.EventGoalCompleted:
		return fmt.Sprintf("Congratulations! You reached your goal with %s saved.", formatAmount(p.AchievedAmount))
	case model.EventGoalDeadlineApproaching:
		days := 0
		if p.DaysRemaining != nil {
			days = *p.DaysRemaining
		}
		return printer.Sprintf("Your goal is due in %d day(s). You are at %s with %s still to go.",
			days, formatPercent(p.CurrentProgress), formatAmount(p.RemainingAmount))
	case model.EventGoalOverdue:
		days := 0
		if p.DaysOverdue != nil {
			days = *p.DaysOverdue
		}
		return printer.Sprintf("Your goal is %d day(s) past its target date with %s remaining.",
			days, formatAmount(p.RemainingAmount))
	case model.EventBudgetThreshold:
		return fmt.Sprintf("You have used %s of your budget (%s of %s), passing the %s mark.",
			formatPercent(p.SpentPercentage), formatAmount(p.SpentAmount), formatAmount(p.TotalAmount), formatPercent(p.ThresholdPercent))
	case model.EventBudgetExceeded:
		return fmt.Sprintf("Your budget is exceeded: %s spent of %s (%s).",
			formatAmount(p.SpentAmount), formatAmount(p.TotalAmount), formatPercent(p.SpentPercentage))
	default:
		return "You have a new notification."
	}
}

func notificationEmailTemplate(n *model.Notification, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("%s: %s", appName, eventTitle(n.Type))

	filter := "goalId"
	if model.IsBudgetEvent(n.Type) {
		filter = "budgetId"
	}

	body := fmt.Sprintf(`Hi,

%s

See the details: %s/api/notifications?%s=%s

You receive this email because email notifications are enabled in your preferences.

Best,
The %s Team`, notificationLine(n), appURL, filter, n.EntityID, appName)

	return subject, body
}
