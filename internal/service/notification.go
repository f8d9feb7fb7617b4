package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/model"
	"github.com/mintreplica/mintlite/internal/notify"
	"github.com/mintreplica/mintlite/internal/repository"
)

// Mailer sends a stored notification by email.
type Mailer interface {
	SendNotificationEmail(ctx context.Context, email string, n *model.Notification) error
}

// Delivery holds the notifications written by one Record call that still need to go out by
// email once the surrounding transaction has committed.
type Delivery struct {
	prefs  notify.Preferences
	events []model.Event
	stored []*model.Notification
}

type NotificationService struct {
	store  *repository.Store
	mailer Mailer
}

func NewNotificationService(store *repository.Store, mailer Mailer) *NotificationService {
	return &NotificationService{
		store:  store,
		mailer: mailer,
	}
}

// Record filters events through the user's preferences and appends the survivors using
// tx, which should be the transaction that persisted the entity. Events whose dedupe key
// is already stored are dropped silently.
func (s *NotificationService) Record(ctx context.Context, tx *repository.Store, userID string, events []model.Event) (Delivery, error) {
	if len(events) == 0 {
		return Delivery{}, nil
	}

	stored, err := tx.Preferences.ByUserID(ctx, userID)
	if err != nil {
		return Delivery{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	prefs := notify.FromModel(stored)

	d := Delivery{prefs: prefs}
	for _, ev := range notify.Filter(prefs, events) {
		// v7 ids sort by creation, keeping events of one call in emission order.
		id, err := uuid.NewV7()
		if err != nil {
			return Delivery{}, fmt.Errorf("failed to generate notification id: %w", err)
		}

		n := &model.Notification{
			ID:        id.String(),
			UserID:    ev.UserID,
			Type:      ev.Type,
			EntityID:  ev.EntityID,
			Priority:  ev.Priority,
			Payload:   ev.Payload,
			CreatedAt: ev.OccurredAt,
		}
		if ev.DedupeKey != "" {
			key := ev.DedupeKey
			n.DedupeKey = &key
		}

		inserted, err := tx.Notifications.Append(ctx, n)
		if err != nil {
			return Delivery{}, fmt.Errorf("failed to store %s notification: %w", ev.Type, err)
		}
		if !inserted {
			slog.Debug("duplicate notification skipped", "type", ev.Type, "entityID", ev.EntityID, "dedupeKey", ev.DedupeKey)
			continue
		}

		d.events = append(d.events, ev)
		d.stored = append(d.stored, n)
	}

	return d, nil
}

// Deliver emails the notifications in d the user asked to receive. Failures are logged
// and never returned; the notification itself is already stored.
func (s *NotificationService) Deliver(ctx context.Context, d Delivery) {
	if s.mailer == nil {
		return
	}

	for i, n := range d.stored {
		if !d.prefs.WantsEmail(d.events[i]) {
			continue
		}

		err := s.mailer.SendNotificationEmail(ctx, d.prefs.Email(), n)
		if err != nil {
			slog.Error("failed to send notification email", "error", err, "type", n.Type, "notificationID", n.ID)
		}
	}
}

// NotificationQuery are the list filters accepted from callers.
type NotificationQuery struct {
	Type       string
	GoalID     string
	BudgetID   string
	UnreadOnly bool
	Limit      int
}

func (s *NotificationService) Notifications(ctx context.Context, userID string, q NotificationQuery) ([]*model.Notification, error) {
	if q.Type != "" && !model.IsEventType(q.Type) {
		return nil, fmt.Errorf("unknown notification type %q: %w", q.Type, apperr.ErrInvalidArgument)
	}
	if q.GoalID != "" && q.BudgetID != "" {
		return nil, fmt.Errorf("filter by goalId or budgetId, not both: %w", apperr.ErrInvalidArgument)
	}
	entityID := q.GoalID
	if q.BudgetID != "" {
		entityID = q.BudgetID
	}

	notifications, err := s.store.Notifications.List(ctx, userID, repository.NotificationFilter{
		Type:       q.Type,
		EntityID:   entityID,
		UnreadOnly: q.UnreadOnly,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.Notifications.MarkRead(ctx, userID, notificationID, time.Now().UTC())
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.Notifications.UnreadCount(ctx, userID)
}
