package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BudgetPeriodWeekly    = "WEEKLY"
	BudgetPeriodMonthly   = "MONTHLY"
	BudgetPeriodQuarterly = "QUARTERLY"
	BudgetPeriodYearly    = "YEARLY"
)

const (
	BudgetStatusActive    = "ACTIVE"
	BudgetStatusCompleted = "COMPLETED"
	BudgetStatusArchived  = "ARCHIVED"
)

type Budget struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"userId"`
	Name        string           `db:"name" json:"name"`
	Period      string           `db:"period" json:"period"`
	TotalAmount decimal.Decimal  `db:"total_amount" json:"totalAmount"`
	SpentAmount decimal.Decimal  `db:"spent_amount" json:"spentAmount"`
	StartDate   time.Time        `db:"start_date" json:"startDate"`
	EndDate     time.Time        `db:"end_date" json:"endDate"`
	Status      string           `db:"status" json:"status"`
	Version     int              `db:"version" json:"version"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
	Categories  []BudgetCategory `db:"-" json:"categories"`
}

type BudgetCategory struct {
	BudgetID        string          `db:"budget_id" json:"-"`
	Position        int             `db:"position" json:"-"`
	Name            string          `db:"name" json:"name"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount" json:"allocatedAmount"`
	SpentAmount     decimal.Decimal `db:"spent_amount" json:"spentAmount"`
}

func (b *Budget) IsActive() bool {
	return b.Status == BudgetStatusActive
}

// AllocatedTotal sums the category allocations.
func (b *Budget) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Categories {
		total = total.Add(c.AllocatedAmount)
	}
	return total
}

// OverAllocated reports whether the categories promise more than the budget holds.
func (b *Budget) OverAllocated() bool {
	return b.AllocatedTotal().GreaterThan(b.TotalAmount)
}

// Category returns the index of the named category, or -1.
func (b *Budget) Category(name string) int {
	for i, c := range b.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func IsBudgetPeriod(period string) bool {
	switch period {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodQuarterly, BudgetPeriodYearly:
		return true
	}
	return false
}

// PeriodEnd returns the exclusive end of one period starting at start.
func PeriodEnd(period string, start time.Time) time.Time {
	switch period {
	case BudgetPeriodWeekly:
		return start.AddDate(0, 0, 7)
	case BudgetPeriodQuarterly:
		return start.AddDate(0, 3, 0)
	case BudgetPeriodYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}
