package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalStatusNotStarted = "NOT_STARTED"
	GoalStatusInProgress = "IN_PROGRESS"
	GoalStatusOnTrack    = "ON_TRACK"
	GoalStatusAtRisk     = "AT_RISK"
	GoalStatusCompleted  = "COMPLETED"
	GoalStatusOverdue    = "OVERDUE"
)

const (
	GoalCategoryEmergencyFund = "EMERGENCY_FUND"
	GoalCategoryVacation      = "VACATION"
	GoalCategoryHome          = "HOME"
	GoalCategoryCar           = "CAR"
	GoalCategoryEducation     = "EDUCATION"
	GoalCategoryRetirement    = "RETIREMENT"
	GoalCategoryDebtPayoff    = "DEBT_PAYOFF"
	GoalCategoryOther         = "OTHER"
)

var GoalCategories = []string{
	GoalCategoryEmergencyFund,
	GoalCategoryVacation,
	GoalCategoryHome,
	GoalCategoryCar,
	GoalCategoryEducation,
	GoalCategoryRetirement,
	GoalCategoryDebtPayoff,
	GoalCategoryOther,
}

type Goal struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"userId"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	TargetAmount  decimal.Decimal `db:"target_amount" json:"targetAmount"`
	CurrentAmount decimal.Decimal `db:"current_amount" json:"currentAmount"`
	TargetDate    time.Time       `db:"target_date" json:"targetDate"`
	Category      string          `db:"category" json:"category"`
	Status        string          `db:"status" json:"status"`
	Version       int             `db:"version" json:"version"`
	CompletedAt   *time.Time      `db:"completed_at" json:"completedAt"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

func (g *Goal) IsCompleted() bool {
	return g.Status == GoalStatusCompleted
}

// RemainingAmount is never negative.
func (g *Goal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func IsGoalCategory(category string) bool {
	for _, c := range GoalCategories {
		if c == category {
			return true
		}
	}
	return false
}
