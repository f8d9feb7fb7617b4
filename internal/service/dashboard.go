package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/progress"
	"github.com/mintreplica/mintlite/internal/repository"
)

type BudgetUsage struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	SpentPercentage decimal.Decimal `json:"spentPercentage"`
}

type Dashboard struct {
	GoalsByStatus       map[string]int  `json:"goalsByStatus"`
	TotalSaved          decimal.Decimal `json:"totalSaved"`
	TotalTarget         decimal.Decimal `json:"totalTarget"`
	OverallProgress     decimal.Decimal `json:"overallProgress"`
	ActiveBudgets       []BudgetUsage   `json:"activeBudgets"`
	UnreadNotifications int             `json:"unreadNotifications"`
}

type DashboardService struct {
	store         *repository.Store
	notifications *NotificationService
}

func NewDashboardService(store *repository.Store, notifications *NotificationService) *DashboardService {
	return &DashboardService{store: store, notifications: notifications}
}

func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	goals, err := s.store.Goals.Goals(ctx, userID, repository.GoalSortRecent)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	d := &Dashboard{
		GoalsByStatus: map[string]int{},
		TotalSaved:    decimal.Zero,
		TotalTarget:   decimal.Zero,
		ActiveBudgets: []BudgetUsage{},
	}
	for _, g := range goals {
		d.GoalsByStatus[g.Status]++
		d.TotalSaved = d.TotalSaved.Add(g.CurrentAmount)
		d.TotalTarget = d.TotalTarget.Add(g.TargetAmount)
	}
	d.OverallProgress = progress.Percentage(d.TotalSaved, d.TotalTarget)

	budgets, err := s.store.Budgets.Budgets(ctx, userID, model.BudgetStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	for _, b := range budgets {
		d.ActiveBudgets = append(d.ActiveBudgets, BudgetUsage{
			ID:              b.ID,
			Name:            b.Name,
			TotalAmount:     b.TotalAmount,
			SpentAmount:     b.SpentAmount,
			SpentPercentage: progress.SpentPercentage(b.SpentAmount, b.TotalAmount),
		})
	}

	d.UnreadNotifications, err = s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	return d, nil
}
