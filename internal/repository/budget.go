package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
)

var ErrBudgetNotFound = fmt.Errorf("budget %w", apperr.ErrNotFound)

type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	ByID(ctx context.Context, userID, budgetID string) (*model.Budget, error)
	Budgets(ctx context.Context, userID, status string) ([]*model.Budget, error)
	EndedActive(ctx context.Context, now time.Time) ([]*model.Budget, error)
	SaveSpending(ctx context.Context, budget *model.Budget) error
	UpdateStatus(ctx context.Context, budget *model.Budget) error
	Delete(ctx context.Context, userID, budgetID string) error
}

type budgetRepository struct {
	db sqlx.ExtContext
}

func NewBudgetRepository(db sqlx.ExtContext) BudgetRepository {
	return &budgetRepository{db: db}
}

// Create inserts the budget and its categories. Callers wanting atomicity run it inside
// Store.InTx.
func (r *budgetRepository) Create(ctx context.Context, budget *model.Budget) error {
	query := `INSERT INTO budgets (id, user_id, name, period, total_amount, spent_amount, start_date,
	                               end_date, status, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if budget.Version == 0 {
		budget.Version = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		budget.ID,
		budget.UserID,
		budget.Name,
		budget.Period,
		budget.TotalAmount,
		budget.SpentAmount,
		budget.StartDate,
		budget.EndDate,
		budget.Status,
		budget.Version,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for i := range budget.Categories {
		c := &budget.Categories[i]
		c.BudgetID = budget.ID
		c.Position = i

		_, err = r.db.ExecContext(ctx,
			`INSERT INTO budget_categories (budget_id, position, name, allocated_amount, spent_amount)
			 VALUES ($1, $2, $3, $4, $5)`,
			c.BudgetID, c.Position, c.Name, c.AllocatedAmount, c.SpentAmount)
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", c.Name, err)
		}
	}

	return nil
}

func (r *budgetRepository) ByID(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	budget := &model.Budget{}
	query := `SELECT * FROM budgets WHERE id = $1 AND user_id = $2`

	err := sqlx.GetContext(ctx, r.db, budget, query, budgetID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.loadCategories(ctx, budget)
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// Budgets lists a user's budgets, newest period first. An empty status lists all of them.
func (r *budgetRepository) Budgets(ctx context.Context, userID, status string) ([]*model.Budget, error) {
	var budgets []*model.Budget

	query := `SELECT * FROM budgets WHERE user_id = $1 ORDER BY start_date DESC, created_at DESC`
	args := []any{userID}
	if status != "" {
		query = `SELECT * FROM budgets WHERE user_id = $1 AND status = $2 ORDER BY start_date DESC, created_at DESC`
		args = append(args, status)
	}

	err := sqlx.SelectContext(ctx, r.db, &budgets, query, args...)
	if err != nil {
		return nil, err
	}

	for _, b := range budgets {
		err = r.loadCategories(ctx, b)
		if err != nil {
			return nil, err
		}
	}

	return budgets, nil
}

// EndedActive returns ACTIVE budgets of every user whose end date is at or before now.
func (r *budgetRepository) EndedActive(ctx context.Context, now time.Time) ([]*model.Budget, error) {
	var budgets []*model.Budget
	query := `SELECT * FROM budgets WHERE status = $1 AND end_date <= $2 ORDER BY end_date ASC`

	err := sqlx.SelectContext(ctx, r.db, &budgets, query, model.BudgetStatusActive, now)
	if err != nil {
		return nil, err
	}

	return budgets, nil
}

// SaveSpending writes spent amounts for the budget and every category, guarded by the
// budget version like goalRepository.SaveProgress.
func (r *budgetRepository) SaveSpending(ctx context.Context, budget *model.Budget) error {
	query := `UPDATE budgets
	          SET spent_amount = $1, updated_at = $2, version = version + 1
	          WHERE id = $3 AND user_id = $4 AND version = $5`

	result, err := r.db.ExecContext(ctx, query,
		budget.SpentAmount,
		budget.UpdatedAt,
		budget.ID,
		budget.UserID,
		budget.Version,
	)
	if err != nil {
		return err
	}

	err = expectOneRow(result, nil)
	if err != nil {
		_, err = r.ByID(ctx, budget.UserID, budget.ID)
		if err != nil {
			return err
		}
		return ErrVersionConflict
	}

	for _, c := range budget.Categories {
		_, err = r.db.ExecContext(ctx,
			`UPDATE budget_categories SET spent_amount = $1 WHERE budget_id = $2 AND position = $3`,
			c.SpentAmount, budget.ID, c.Position)
		if err != nil {
			return fmt.Errorf("failed to update category %q: %w", c.Name, err)
		}
	}

	budget.Version++
	return nil
}

func (r *budgetRepository) UpdateStatus(ctx context.Context, budget *model.Budget) error {
	query := `UPDATE budgets SET status = $1, updated_at = $2, version = version + 1
	          WHERE id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, budget.Status, budget.UpdatedAt, budget.ID, budget.UserID)
	if err != nil {
		return err
	}

	err = expectOneRow(result, ErrBudgetNotFound)
	if err != nil {
		return err
	}

	budget.Version++
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, userID, budgetID string) error {
	// Categories go explicitly so SQLite connections without foreign_keys behave the same.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM budget_categories WHERE budget_id IN (SELECT id FROM budgets WHERE id = $1 AND user_id = $2)`,
		budgetID, userID)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrBudgetNotFound)
}

func (r *budgetRepository) loadCategories(ctx context.Context, budget *model.Budget) error {
	var categories []model.BudgetCategory
	query := `SELECT * FROM budget_categories WHERE budget_id = $1 ORDER BY position ASC`

	err := sqlx.SelectContext(ctx, r.db, &categories, query, budget.ID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	if categories == nil {
		categories = []model.BudgetCategory{}
	}
	budget.Categories = categories
	return nil
}
