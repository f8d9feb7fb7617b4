package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/progress"
	"github.com/mintreplica/mintlite/internal/repository"
	"github.com/mintreplica/mintlite/internal/validation"
)

var ErrBudgetNotActive = fmt.Errorf("budget is not active: %w", apperr.ErrPreconditionFailed)

type BudgetCategoryInput struct {
	Name            string
	AllocatedAmount decimal.Decimal
}

type CreateBudgetInput struct {
	Name        string
	Period      string
	TotalAmount decimal.Decimal
	StartDate   time.Time
	// EndDate defaults to one period after StartDate.
	EndDate    time.Time
	Categories []BudgetCategoryInput
}

type BudgetService struct {
	store         *repository.Store
	tracker       *progress.Tracker
	notifications *NotificationService
	maxRetries    int
	now           func() time.Time
}

func NewBudgetService(
	store *repository.Store,
	tracker *progress.Tracker,
	notifications *NotificationService,
	maxRetries int,
) *BudgetService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &BudgetService{
		store:         store,
		tracker:       tracker,
		notifications: notifications,
		maxRetries:    maxRetries,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new ACTIVE budget. The returned warnings flag allocations that exceed
// the total; they do not block creation.
func (s *BudgetService) Create(ctx context.Context, userID string, in CreateBudgetInput) (*model.Budget, []string, error) {
	err := validation.ValidateName(in.Name)
	if err != nil {
		return nil, nil, err
	}
	if !model.IsBudgetPeriod(in.Period) {
		return nil, nil, fmt.Errorf("unknown budget period %q: %w", in.Period, apperr.ErrInvalidArgument)
	}
	err = validation.ValidatePositiveAmount("totalAmount", in.TotalAmount)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	start := in.StartDate
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	start = start.UTC()
	end := in.EndDate
	if end.IsZero() {
		end = model.PeriodEnd(in.Period, start)
	}
	end = end.UTC()
	if !end.After(start) {
		return nil, nil, fmt.Errorf("endDate must be after startDate: %w", apperr.ErrInvalidArgument)
	}

	budget := &model.Budget{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Period:      in.Period,
		TotalAmount: in.TotalAmount,
		SpentAmount: decimal.Zero,
		StartDate:   start,
		EndDate:     end,
		Status:      model.BudgetStatusActive,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		Categories:  make([]model.BudgetCategory, 0, len(in.Categories)),
	}

	seen := make(map[string]bool, len(in.Categories))
	for _, c := range in.Categories {
		name := strings.TrimSpace(c.Name)
		err = validation.ValidateName(name)
		if err != nil {
			return nil, nil, fmt.Errorf("category: %w", err)
		}
		if seen[strings.ToLower(name)] {
			return nil, nil, fmt.Errorf("duplicate category %q: %w", name, apperr.ErrInvalidArgument)
		}
		seen[strings.ToLower(name)] = true

		err = validation.ValidateNonNegativeAmount("allocatedAmount", c.AllocatedAmount)
		if err != nil {
			return nil, nil, fmt.Errorf("category %q: %w", name, err)
		}

		budget.Categories = append(budget.Categories, model.BudgetCategory{
			Name:            name,
			AllocatedAmount: c.AllocatedAmount,
			SpentAmount:     decimal.Zero,
		})
	}

	var warnings []string
	if budget.OverAllocated() {
		warnings = append(warnings, fmt.Sprintf("categories allocate %s of a %s budget",
			budget.AllocatedTotal().StringFixed(2), budget.TotalAmount.StringFixed(2)))
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		return tx.Budgets.Create(ctx, budget)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create budget: %w", err)
	}

	slog.Info("budget created", "budgetID", budget.ID, "userID", userID, "period", budget.Period)
	return budget, warnings, nil
}

func (s *BudgetService) ByID(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	return s.store.Budgets.ByID(ctx, userID, budgetID)
}

// Budgets lists the user's budgets, optionally narrowed to one status.
func (s *BudgetService) Budgets(ctx context.Context, userID, status string) ([]*model.Budget, error) {
	switch status {
	case "", model.BudgetStatusActive, model.BudgetStatusCompleted, model.BudgetStatusArchived:
	default:
		return nil, fmt.Errorf("unknown budget status %q: %w", status, apperr.ErrInvalidArgument)
	}

	budgets, err := s.store.Budgets.Budgets(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		budgets = []*model.Budget{}
	}
	return budgets, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	return s.store.InTx(ctx, func(tx *repository.Store) error {
		return tx.Budgets.Delete(ctx, userID, budgetID)
	})
}

// RecordSpending adds delta (negative for refunds) to a category of an ACTIVE budget and
// stores any threshold notifications it triggers.
func (s *BudgetService) RecordSpending(ctx context.Context, userID, budgetID, category string, delta decimal.Decimal) (*model.Budget, []model.Event, error) {
	err := validation.ValidateAmount("delta", delta)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		var (
			result   model.Budget
			events   []model.Event
			delivery Delivery
		)

		err = s.store.InTx(ctx, func(tx *repository.Store) error {
			budget, err := tx.Budgets.ByID(ctx, userID, budgetID)
			if err != nil {
				return err
			}
			if !budget.IsActive() {
				return ErrBudgetNotActive
			}

			result, events, err = s.tracker.UpdateBudgetSpending(*budget, category, delta, s.now())
			if err != nil {
				return err
			}

			err = tx.Budgets.SaveSpending(ctx, &result)
			if err != nil {
				return err
			}

			delivery, err = s.notifications.Record(ctx, tx, userID, events)
			return err
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			slog.Warn("budget changed concurrently, retrying", "budgetID", budgetID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		s.notifications.Deliver(ctx, delivery)
		if events == nil {
			events = []model.Event{}
		}
		return &result, events, nil
	}

	return nil, nil, fmt.Errorf("budget %s: gave up after %d attempts: %w", budgetID, s.maxRetries, repository.ErrVersionConflict)
}

// Archive moves an ACTIVE budget to ARCHIVED.
func (s *BudgetService) Archive(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	var budget *model.Budget
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		budget, err = tx.Budgets.ByID(ctx, userID, budgetID)
		if err != nil {
			return err
		}
		if !budget.IsActive() {
			return ErrBudgetNotActive
		}

		budget.Status = model.BudgetStatusArchived
		budget.UpdatedAt = s.now()
		return tx.Budgets.UpdateStatus(ctx, budget)
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// CloseEnded marks every ACTIVE budget whose period has ended as COMPLETED and returns
// how many were closed.
func (s *BudgetService) CloseEnded(ctx context.Context) (int, error) {
	now := s.now()
	budgets, err := s.store.Budgets.EndedActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list ended budgets: %w", err)
	}

	closed := 0
	for _, b := range budgets {
		b.Status = model.BudgetStatusCompleted
		b.UpdatedAt = now
		err = s.store.Budgets.UpdateStatus(ctx, b)
		if err != nil {
			slog.Error("failed to close budget", "error", err, "budgetID", b.ID)
			continue
		}
		closed++
	}

	if closed > 0 {
		slog.Info("closed ended budgets", "count", closed)
	}
	return closed, nil
}
