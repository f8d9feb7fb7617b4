package progress

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/model"
)

// UpdateBudgetSpending applies delta to the named category and to the budget total.
// An empty category only moves the total.
//
// Threshold events are edge-triggered against the budget's spent amount before the
// delta: a BUDGET_THRESHOLD carrying the highest threshold crossed, then BUDGET_EXCEEDED
// when spending first goes past 100%.
func (t *Tracker) UpdateBudgetSpending(budget model.Budget, category string, delta decimal.Decimal, now time.Time) (model.Budget, []model.Event, error) {
	updated := budget
	updated.Categories = append([]model.BudgetCategory(nil), budget.Categories...)

	if category != "" {
		idx := updated.Category(category)
		if idx < 0 {
			return budget, nil, fmt.Errorf("%q: %w", category, ErrUnknownCategory)
		}
		spent := updated.Categories[idx].SpentAmount.Add(delta)
		if spent.IsNegative() {
			return budget, nil, fmt.Errorf("category %q: %w", category, ErrNegativeSpending)
		}
		updated.Categories[idx].SpentAmount = spent
	}

	total := budget.SpentAmount.Add(delta)
	if total.IsNegative() {
		return budget, nil, ErrNegativeSpending
	}
	updated.SpentAmount = total
	updated.UpdatedAt = now

	if !budget.TotalAmount.IsPositive() {
		return updated, nil, nil
	}

	previousPct := rawPercentage(budget.SpentAmount, budget.TotalAmount)
	currentPct := rawPercentage(total, budget.TotalAmount)

	payload := func() model.EventPayload {
		return model.EventPayload{
			Category:           category,
			PreviousAmount:     decimalPtr(budget.SpentAmount),
			SpentAmount:        decimalPtr(total),
			TotalAmount:        decimalPtr(budget.TotalAmount),
			PreviousPercentage: decimalPtr(previousPct.RoundBank(2)),
			SpentPercentage:    decimalPtr(currentPct.RoundBank(2)),
		}
	}
	period := budget.StartDate.Format("2006-01-02")

	var events []model.Event

	var crossed *decimal.Decimal
	for i := range t.cfg.BudgetThresholds {
		th := t.cfg.BudgetThresholds[i]
		if previousPct.LessThan(th) && currentPct.GreaterThanOrEqual(th) {
			crossed = &th
		}
	}
	if crossed != nil {
		p := payload()
		p.ThresholdPercent = decimalPtr(*crossed)
		events = append(events, model.Event{
			Type:       model.EventBudgetThreshold,
			UserID:     budget.UserID,
			EntityID:   budget.ID,
			Priority:   model.PriorityMedium,
			Payload:    p,
			DedupeKey:  fmt.Sprintf("threshold:%s:%s:%s", budget.ID, period, crossed.String()),
			OccurredAt: now,
		})
	}

	if previousPct.LessThanOrEqual(hundred) && currentPct.GreaterThan(hundred) {
		events = append(events, model.Event{
			Type:       model.EventBudgetExceeded,
			UserID:     budget.UserID,
			EntityID:   budget.ID,
			Priority:   model.PriorityHigh,
			Payload:    payload(),
			DedupeKey:  fmt.Sprintf("exceeded:%s:%s", budget.ID, period),
			OccurredAt: now,
		})
	}

	return updated, events, nil
}
