package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store groups the repositories that share one database handle. A Store obtained inside
// InTx runs every query in that transaction.
type Store struct {
	db *sqlx.DB

	Goals         GoalRepository
	Budgets       BudgetRepository
	Notifications NotificationRepository
	Preferences   PreferencesRepository
}

func NewStore(db *sqlx.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(ext sqlx.ExtContext) *Store {
	return &Store{
		Goals:         NewGoalRepository(ext),
		Budgets:       NewBudgetRepository(ext),
		Notifications: NewNotificationRepository(ext),
		Preferences:   NewPreferencesRepository(ext),
	}
}

// InTx runs fn in a transaction, committing when fn returns nil. Calling InTx on a
// transactional Store reuses the open transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(newStore(tx))
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			slog.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
