package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/progress"
	"github.com/mintreplica/mintlite/internal/repository"
	"github.com/mintreplica/mintlite/internal/validation"
)

var ErrMissingTargetDate = fmt.Errorf("target date is required: %w", apperr.ErrInvalidArgument)

type CreateGoalInput struct {
	Name          string
	Description   string
	Category      string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
}

type UpdateGoalInput struct {
	Name        string
	Description string
	Category    string
}

// DeadlineReport summarizes one CheckAllDeadlines run.
type DeadlineReport struct {
	Checked int           `json:"checked"`
	Failed  int           `json:"failed"`
	Events  []model.Event `json:"events"`
}

type GoalService struct {
	store         *repository.Store
	tracker       *progress.Tracker
	notifications *NotificationService
	maxRetries    int
	now           func() time.Time
}

func NewGoalService(
	store *repository.Store,
	tracker *progress.Tracker,
	notifications *NotificationService,
	maxRetries int,
) *GoalService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &GoalService{
		store:         store,
		tracker:       tracker,
		notifications: notifications,
		maxRetries:    maxRetries,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *GoalService) Create(ctx context.Context, userID string, in CreateGoalInput) (*model.Goal, error) {
	err := validateGoalDetails(in.Name, in.Description, in.Category)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePositiveAmount("targetAmount", in.TargetAmount)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateNonNegativeAmount("currentAmount", in.CurrentAmount)
	if err != nil {
		return nil, err
	}
	if in.TargetDate.IsZero() {
		return nil, ErrMissingTargetDate
	}

	category := in.Category
	if category == "" {
		category = model.GoalCategoryOther
	}

	now := s.now()
	goal := &model.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          in.Name,
		Description:   in.Description,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		TargetDate:    in.TargetDate.UTC(),
		Category:      category,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	goal.Status = s.tracker.Status(*goal, now)
	if goal.IsCompleted() {
		goal.CompletedAt = &now
	}

	err = s.store.Goals.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "goalID", goal.ID, "userID", userID, "status", goal.Status)
	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.store.Goals.ByID(ctx, userID, goalID)
}

func (s *GoalService) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	goals, err := s.store.Goals.Goals(ctx, userID, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	if goals == nil {
		goals = []*model.Goal{}
	}
	return goals, nil
}

// Update changes the descriptive fields only; amounts move through UpdateProgress.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in UpdateGoalInput) (*model.Goal, error) {
	err := validateGoalDetails(in.Name, in.Description, in.Category)
	if err != nil {
		return nil, err
	}

	// Verify ownership
	goal, err := s.store.Goals.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Name = in.Name
	goal.Description = in.Description
	if in.Category != "" {
		goal.Category = in.Category
	}
	goal.UpdatedAt = s.now()

	err = s.store.Goals.UpdateDetails(ctx, goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return s.store.Goals.Delete(ctx, userID, goalID)
}

// UpdateProgress sets the goal's current amount, persists the transition and stores the
// resulting notifications in the same transaction. Emails go out after commit.
func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID string, newAmount decimal.Decimal) (*model.Goal, []model.Event, error) {
	err := validation.ValidateAmount("currentAmount", newAmount)
	if err != nil {
		return nil, nil, err
	}

	return s.transition(ctx, userID, goalID, func(goal model.Goal, now time.Time) (model.Goal, []model.Event, error) {
		return s.tracker.UpdateProgress(goal, newAmount, now)
	})
}

// CheckDeadline runs the deadline check for a single goal.
func (s *GoalService) CheckDeadline(ctx context.Context, userID, goalID string) (*model.Goal, []model.Event, error) {
	return s.transition(ctx, userID, goalID, s.tracker.CheckDeadlines)
}

// CheckAllDeadlines checks every unfinished goal of every user. A goal that fails is
// logged and counted; the run carries on with the rest.
func (s *GoalService) CheckAllDeadlines(ctx context.Context) (*DeadlineReport, error) {
	goals, err := s.store.Goals.Unfinished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unfinished goals: %w", err)
	}

	report := &DeadlineReport{Events: []model.Event{}}
	for _, g := range goals {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		_, events, err := s.CheckDeadline(ctx, g.UserID, g.ID)
		if err != nil {
			report.Failed++
			slog.Error("deadline check failed", "error", err, "goalID", g.ID, "userID", g.UserID)
			continue
		}

		report.Checked++
		report.Events = append(report.Events, events...)
	}

	slog.Info("deadline check finished", "checked", report.Checked, "failed", report.Failed, "events", len(report.Events))
	return report, nil
}

type goalTransition func(goal model.Goal, now time.Time) (model.Goal, []model.Event, error)

// transition reads the goal, applies fn and writes the result guarded by the goal version,
// retrying on a concurrent write.
func (s *GoalService) transition(ctx context.Context, userID, goalID string, fn goalTransition) (*model.Goal, []model.Event, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		var (
			result   model.Goal
			events   []model.Event
			delivery Delivery
		)

		err := s.store.InTx(ctx, func(tx *repository.Store) error {
			goal, err := tx.Goals.ByID(ctx, userID, goalID)
			if err != nil {
				return err
			}

			result, events, err = fn(*goal, s.now())
			if err != nil {
				return err
			}

			if goalChanged(goal, &result) {
				err = tx.Goals.SaveProgress(ctx, &result)
				if err != nil {
					return err
				}
			}

			delivery, err = s.notifications.Record(ctx, tx, userID, events)
			return err
		})
		if errors.Is(err, repository.ErrVersionConflict) {
			slog.Warn("goal changed concurrently, retrying", "goalID", goalID, "attempt", attempt)
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

	return nil, nil, fmt.Errorf("goal %s: gave up after %d attempts: %w", goalID, s.maxRetries, repository.ErrVersionConflict)
}

func goalChanged(before, after *model.Goal) bool {
	return !before.CurrentAmount.Equal(after.CurrentAmount) ||
		before.Status != after.Status ||
		(before.CompletedAt == nil) != (after.CompletedAt == nil)
}

func validateGoalDetails(name, description, category string) error {
	err := validation.ValidateName(name)
	if err != nil {
		return err
	}
	err = validation.ValidateDescription(description)
	if err != nil {
		return err
	}
	if category != "" && !model.IsGoalCategory(category) {
		return fmt.Errorf("unknown goal category %q: %w", category, apperr.ErrInvalidArgument)
	}
	return nil
}
