package progress

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Config tunes the tracker. The zero value of OnTrackPercent and AtRiskDays disables
// those statuses.
type Config struct {
	// WarningDays is the inclusive window before the target date in which
	// GOAL_DEADLINE_APPROACHING fires.
	WarningDays int

	// OnTrackPercent moves an unfinished goal to ON_TRACK once its progress reaches it.
	OnTrackPercent decimal.Decimal

	// AtRiskDays moves an unfinished goal to AT_RISK when its target date is this close.
	AtRiskDays int

	// BudgetThresholds are spending percentages that trigger BUDGET_THRESHOLD on crossing.
	BudgetThresholds []decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		WarningDays:      3,
		BudgetThresholds: []decimal.Decimal{decimal.NewFromInt(80), decimal.NewFromInt(100)},
	}
}

// normalize drops non-positive thresholds and sorts the rest ascending.
func (c Config) normalize() Config {
	thresholds := make([]decimal.Decimal, 0, len(c.BudgetThresholds))
	for _, th := range c.BudgetThresholds {
		if th.IsPositive() {
			thresholds = append(thresholds, th)
		}
	}
	sort.Slice(thresholds, func(i, j int) bool {
		return thresholds[i].LessThan(thresholds[j])
	})
	c.BudgetThresholds = thresholds

	if c.WarningDays < 0 {
		c.WarningDays = 0
	}
	if c.AtRiskDays < 0 {
		c.AtRiskDays = 0
	}
	return c
}
