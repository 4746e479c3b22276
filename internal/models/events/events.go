// Package events defines the messages published after a ledger mutation
// commits. Downstream consumers (dashboards, exports) subscribe to these
// instead of polling the store.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicIncomeRecorded = "income_recorded"
	TopicIncomeDeleted  = "income_deleted"
	TopicGoalChanged    = "goal_changed"
	TopicSessionStarted = "session_started"
	TopicSessionEnded   = "session_ended"
)

type IncomeRecorded struct {
	UserID   string          `json:"user_id"`
	RecordID string          `json:"record_id"`
	Source   string          `json:"source"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`

	OccurredAt time.Time `json:"occurred_at"`
}

type IncomeDeleted struct {
	UserID     string    `json:"user_id"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type GoalChanged struct {
	UserID     string          `json:"user_id"`
	Goal       decimal.Decimal `json:"goal"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type SessionStarted struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SessionEnded struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
