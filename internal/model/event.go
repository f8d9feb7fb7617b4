package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventGoalProgress            = "GOAL_PROGRESS"
	EventGoalCompleted           = "GOAL_COMPLETED"
	EventGoalDeadlineApproaching = "GOAL_DEADLINE_APPROACHING"
	EventGoalOverdue             = "GOAL_OVERDUE"
	EventBudgetThreshold         = "BUDGET_THRESHOLD"
	EventBudgetExceeded          = "BUDGET_EXCEEDED"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

var priorityRank = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// PriorityAtLeast reports whether p ranks at or above min. Unknown values rank lowest.
func PriorityAtLeast(p, min string) bool {
	return priorityRank[p] >= priorityRank[min]
}

func IsPriority(p string) bool {
	_, ok := priorityRank[p]
	return ok
}

// IsBudgetEvent reports whether events of type t refer to a budget rather than a goal.
func IsBudgetEvent(t string) bool {
	return t == EventBudgetThreshold || t == EventBudgetExceeded
}

func IsEventType(t string) bool {
	switch t {
	case EventGoalProgress, EventGoalCompleted, EventGoalDeadlineApproaching,
		EventGoalOverdue, EventBudgetThreshold, EventBudgetExceeded:
		return true
	}
	return false
}

// Event is a progress notification produced by the tracker. It is not persisted as-is;
// see Notification.
type Event struct {
	Type       string       `json:"type"`
	UserID     string       `json:"userId"`
	EntityID   string       `json:"entityId"`
	Priority   string       `json:"priority"`
	Payload    EventPayload `json:"payload"`
	DedupeKey  string       `json:"-"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// EventPayload carries the fields relevant to each event type; the rest stay nil.
type EventPayload struct {
	PreviousAmount     *decimal.Decimal `json:"previousAmount,omitempty"`
	CurrentAmount      *decimal.Decimal `json:"currentAmount,omitempty"`
	ProgressPercentage *decimal.Decimal `json:"progressPercentage,omitempty"`
	IsCompleted        *bool            `json:"isCompleted,omitempty"`
	AchievedAmount     *decimal.Decimal `json:"achievedAmount,omitempty"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
	DaysRemaining      *int             `json:"daysRemaining,omitempty"`
	DaysOverdue        *int             `json:"daysOverdue,omitempty"`
	CurrentProgress    *decimal.Decimal `json:"currentProgress,omitempty"`
	RemainingAmount    *decimal.Decimal `json:"remainingAmount,omitempty"`
	Category           string           `json:"category,omitempty"`
	SpentAmount        *decimal.Decimal `json:"spentAmount,omitempty"`
	TotalAmount        *decimal.Decimal `json:"totalAmount,omitempty"`
	PreviousPercentage *decimal.Decimal `json:"previousPercentage,omitempty"`
	SpentPercentage    *decimal.Decimal `json:"spentPercentage,omitempty"`
	ThresholdPercent   *decimal.Decimal `json:"thresholdPercent,omitempty"`
}

// Value stores the payload as a JSON document.
func (p EventPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *EventPayload) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = EventPayload{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), p)
	case []byte:
		return json.Unmarshal(v, p)
	default:
		return fmt.Errorf("unsupported payload type %T", src)
	}
}

// Notification is an Event appended to the notification store.
type Notification struct {
	ID        string       `db:"id" json:"id"`
	UserID    string       `db:"user_id" json:"userId"`
	Type      string       `db:"type" json:"type"`
	EntityID  string       `db:"entity_id" json:"entityId"`
	Priority  string       `db:"priority" json:"priority"`
	Payload   EventPayload `db:"payload" json:"payload"`
	DedupeKey *string      `db:"dedupe_key" json:"-"`
	ReadAt    *time.Time   `db:"read_at" json:"readAt"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
