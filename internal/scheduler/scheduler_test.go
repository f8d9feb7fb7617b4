package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mintreplica/mintlite/internal/service"
)

type countingChecker struct {
	runs atomic.Int32
	err  error
}

func (c *countingChecker) CheckAllDeadlines(context.Context) (*service.DeadlineReport, error) {
	c.runs.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &service.DeadlineReport{Checked: 1}, nil
}

type countingCloser struct {
	runs   atomic.Int32
	closed int
}

func (c *countingCloser) CloseEnded(context.Context) (int, error) {
	c.runs.Add(1)
	return c.closed, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRunOnceRunsBothChecks(t *testing.T) {
	goals := &countingChecker{err: errors.New("db down")}
	budgets := &countingCloser{}

	New(goals, budgets, time.Hour).RunOnce(context.Background())

	if goals.runs.Load() != 1 || budgets.runs.Load() != 1 {
		t.Fatalf("runs = %d/%d, want 1/1", goals.runs.Load(), budgets.runs.Load())
	}
}

func TestRunReportsBothSteps(t *testing.T) {
	result, err := New(&countingChecker{}, &countingCloser{closed: 2}, time.Hour).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Checked != 1 || result.BudgetsClosed != 2 || result.Events == nil {
		t.Fatalf("result = %+v", result)
	}

	failing := errors.New("db down")
	budgets := &countingCloser{closed: 1}
	result, err = New(&countingChecker{err: failing}, budgets, time.Hour).Run(context.Background())
	if !errors.Is(err, failing) {
		t.Fatalf("err = %v, want the deadline error", err)
	}
	if budgets.runs.Load() != 1 || result.BudgetsClosed != 1 {
		t.Fatalf("budget step skipped after deadline failure: %+v", result)
	}
}

func TestStartTicksAndStops(t *testing.T) {
	goals := &countingChecker{}
	budgets := &countingCloser{}
	s := New(goals, budgets, 10*time.Millisecond)
	s.startDelay = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return goals.runs.Load() >= 3 })
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestNotifyTriggersWhenTickerDisabled(t *testing.T) {
	goals := &countingChecker{}
	s := New(goals, &countingCloser{}, 0)
	s.startDelay = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	if goals.runs.Load() != 0 {
		t.Fatalf("runs = %d before Notify, want 0", goals.runs.Load())
	}

	s.Notify()
	s.Notify()
	waitFor(t, func() bool { return goals.runs.Load() >= 1 })
}
