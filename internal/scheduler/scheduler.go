// Package scheduler runs the periodic deadline and budget-period checks.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/service"
)

// DeadlineChecker checks every unfinished goal.
type DeadlineChecker interface {
	CheckAllDeadlines(ctx context.Context) (*service.DeadlineReport, error)
}

// BudgetCloser completes budgets whose period has ended.
type BudgetCloser interface {
	CloseEnded(ctx context.Context) (int, error)
}

type Scheduler struct {
	goals         DeadlineChecker
	budgets       BudgetCloser
	checkInterval time.Duration
	startDelay    time.Duration
	notifyCh      chan struct{}
}

func New(goals DeadlineChecker, budgets BudgetCloser, checkInterval time.Duration) *Scheduler {
	return &Scheduler{
		goals:         goals,
		budgets:       budgets,
		checkInterval: checkInterval,
		startDelay:    2 * time.Second,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start blocks until ctx is done. A non-positive interval disables the ticker; Notify
// still triggers checks.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("scheduler started", "interval", s.checkInterval)

	var tick <-chan time.Time
	if s.checkInterval > 0 {
		ticker := time.NewTicker(s.checkInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// Let the server finish starting before the first check
	select {
	case <-ctx.Done():
		slog.Info("scheduler stopped")
		return
	case <-time.After(s.startDelay):
	}

	if tick != nil {
		s.RunOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-tick:
			s.RunOnce(ctx)
		case <-s.notifyCh:
			slog.Info("scheduler triggered")
			s.RunOnce(ctx)
		}
	}
}

// Result is the outcome of one pass.
type Result struct {
	Checked       int           `json:"checked"`
	Failed        int           `json:"failed"`
	Events        []model.Event `json:"events"`
	BudgetsClosed int           `json:"budgetsClosed"`
}

// Run performs one pass synchronously: deadline checks for every unfinished goal, then
// closing budgets whose period has ended. The budget step runs even when the deadline
// step fails; both errors are returned.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	result := &Result{Events: []model.Event{}}

	report, deadlineErr := s.goals.CheckAllDeadlines(ctx)
	if report != nil {
		result.Checked = report.Checked
		result.Failed = report.Failed
		result.Events = append(result.Events, report.Events...)
	}
	if deadlineErr != nil {
		deadlineErr = fmt.Errorf("deadline check: %w", deadlineErr)
	}

	closed, closeErr := s.budgets.CloseEnded(ctx)
	result.BudgetsClosed = closed
	if closeErr != nil {
		closeErr = fmt.Errorf("closing ended budgets: %w", closeErr)
	}

	return result, errors.Join(deadlineErr, closeErr)
}

// RunOnce runs one pass and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()

	result, err := s.Run(ctx)
	if err != nil {
		slog.Error("scheduled check failed", "error", err)
	}

	slog.Debug("scheduled check finished",
		"duration", time.Since(start),
		"goalsChecked", result.Checked,
		"events", len(result.Events),
		"budgetsClosed", result.BudgetsClosed,
	)
}
