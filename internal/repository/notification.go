package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
)

var ErrNotificationNotFound = fmt.Errorf("notification %w", apperr.ErrNotFound)

// NotificationFilter narrows List. Zero values match everything.
type NotificationFilter struct {
	Type       string
	EntityID   string
	UnreadOnly bool
	Limit      int
}

type NotificationRepository interface {
	Append(ctx context.Context, n *model.Notification) (bool, error)
	List(ctx context.Context, userID string, filter NotificationFilter) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string, at time.Time) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

// Append stores n unless another notification already holds its dedupe key. It reports
// whether a row was written.
func (r *notificationRepository) Append(ctx context.Context, n *model.Notification) (bool, error) {
	query := `INSERT INTO notifications (id, user_id, type, entity_id, priority, payload, dedupe_key, read_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (dedupe_key) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.EntityID,
		n.Priority,
		n.Payload,
		n.DedupeKey,
		n.ReadAt,
		n.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, filter NotificationFilter) ([]*model.Notification, error) {
	var notifications []*model.Notification

	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		where = append(where, fmt.Sprintf("entity_id = $%d", len(args)))
	}
	if filter.UnreadOnly {
		where = append(where, "read_at IS NULL")
	}

	query := `SELECT * FROM notifications WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	err := sqlx.SelectContext(ctx, r.db, &notifications, query, args...)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead sets read_at once; marking an already read notification keeps the first time.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID string, at time.Time) error {
	query := `UPDATE notifications SET read_at = COALESCE(read_at, $1) WHERE id = $2 AND user_id = $3`

	result, err := r.db.ExecContext(ctx, query, at, notificationID, userID)
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrNotificationNotFound)
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`

	err := sqlx.GetContext(ctx, r.db, &count, query, userID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
