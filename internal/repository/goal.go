package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
)

const (
	GoalSortRecent   = "recent"
	GoalSortProgress = "progress"
	GoalSortName     = "name"
	GoalSortDeadline = "deadline"
)

var (
	ErrGoalNotFound    = fmt.Errorf("goal %w", apperr.ErrNotFound)
	ErrVersionConflict = fmt.Errorf("row was modified concurrently: %w", apperr.ErrPreconditionFailed)
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error)
	Unfinished(ctx context.Context) ([]*model.Goal, error)
	UpdateDetails(ctx context.Context, goal *model.Goal) error
	SaveProgress(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db sqlx.ExtContext
}

func NewGoalRepository(db sqlx.ExtContext) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, name, description, target_amount, current_amount, target_date,
	                             category, status, version, completed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if goal.Version == 0 {
		goal.Version = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.Category,
		goal.Status,
		goal.Version,
		goal.CompletedAt,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := sqlx.GetContext(ctx, r.db, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	var goals []*model.Goal

	// Validate and build ORDER BY clause
	var orderBy string
	switch sortBy {
	case GoalSortProgress:
		orderBy = "ORDER BY (current_amount * 1.0 / target_amount) DESC, updated_at DESC"
	case GoalSortName:
		orderBy = "ORDER BY LOWER(name) ASC"
	case GoalSortDeadline:
		orderBy = "ORDER BY target_date ASC, LOWER(name) ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY updated_at DESC"
	}

	query := `SELECT * FROM goals WHERE user_id = $1 ` + orderBy

	err := sqlx.SelectContext(ctx, r.db, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Unfinished returns every goal of every user that is not COMPLETED.
func (r *goalRepository) Unfinished(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE status <> $1 ORDER BY target_date ASC`

	err := sqlx.SelectContext(ctx, r.db, &goals, query, model.GoalStatusCompleted)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// UpdateDetails writes the user-editable fields. Amounts and status are left alone.
func (r *goalRepository) UpdateDetails(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET name = $1, description = $2, category = $3, updated_at = $4, version = version + 1
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.ExecContext(ctx, query,
		goal.Name,
		goal.Description,
		goal.Category,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	err = expectOneRow(result, ErrGoalNotFound)
	if err != nil {
		return err
	}

	goal.Version++
	return nil
}

// SaveProgress writes a tracker result. It only succeeds when the stored version still
// matches goal.Version, and bumps the version on success.
func (r *goalRepository) SaveProgress(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET current_amount = $1, status = $2, completed_at = $3, updated_at = $4, version = version + 1
	          WHERE id = $5 AND user_id = $6 AND version = $7`

	result, err := r.db.ExecContext(ctx, query,
		goal.CurrentAmount,
		goal.Status,
		goal.CompletedAt,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
		goal.Version,
	)
	if err != nil {
		return err
	}

	err = expectOneRow(result, nil)
	if err != nil {
		return r.missingOrConflict(ctx, goal.UserID, goal.ID)
	}

	goal.Version++
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrGoalNotFound)
}

func (r *goalRepository) missingOrConflict(ctx context.Context, userID, goalID string) error {
	_, err := r.ByID(ctx, userID, goalID)
	if err != nil {
		return err
	}
	return ErrVersionConflict
}

var errNoRows = errors.New("no rows affected")

// expectOneRow maps a zero RowsAffected to notFound (or errNoRows when nil).
func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		if notFound == nil {
			return errNoRows
		}
		return notFound
	}

	return nil
}
