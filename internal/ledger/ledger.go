// Package ledger holds the authoritative in-memory state for the active
// user's income records and goal. Every mutation validates first, persists
// through the scoped store, and only then commits in memory, so storage and
// memory never drift apart across a completed operation.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/interfaces"
	"github.com/arrotondami/wealth-engine/internal/models"
	"github.com/arrotondami/wealth-engine/internal/models/events"
)

// Engine is the single writer for one user's ledger at a time. All exported
// methods are serialized by a mutex so each appears atomic to callers.
type Engine struct {
	mu     sync.Mutex
	store  interfaces.LedgerStore
	events interfaces.EventPublisher // optional, nil disables publishing
	log    *zap.Logger

	userID  string // empty until Initialize
	records []models.IncomeRecord
	goal    decimal.Decimal
}

// IncomeInput carries the caller-provided fields of a new record. The id is
// assigned by the engine at creation time.
type IncomeInput struct {
	Source   string          `json:"source"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
}

// Aggregates is the derived summary of the current ledger. It is recomputed
// on every read and never persisted.
type Aggregates struct {
	TotalByCategory map[string]decimal.Decimal `json:"totalByCategory"`
	TotalOverall    decimal.Decimal            `json:"totalOverall"`
	ProgressRatio   float64                    `json:"progressRatio"`
	RecordCount     int                        `json:"recordCount"`
}

// NewEngine creates an engine bound to a scoped store. The publisher may be
// nil when event publishing is disabled.
func NewEngine(store interfaces.LedgerStore, publisher interfaces.EventPublisher, log *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		events: publisher,
		log:    log,
		goal:   models.DefaultGoal,
	}
}

// Initialize loads userID's records and goal from the store, replacing any
// prior in-memory state unconditionally. Nothing from a previously loaded
// user survives, even when the load fails midway.
func (e *Engine) Initialize(ctx context.Context, userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Drop the previous user's state before touching storage. The new user
	// is only bound once both loads succeed: a failed load leaves the engine
	// with no active session, so mutations cannot overwrite a ledger that
	// was never read.
	e.userID = ""
	e.records = nil
	e.goal = models.DefaultGoal

	records, err := e.store.LoadRecords(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading records for %s: %w", userID, err)
	}
	goal, err := e.store.LoadGoal(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading goal for %s: %w", userID, err)
	}

	e.userID = userID
	e.records = records
	e.goal = goal
	e.log.Debug("ledger initialized",
		zap.String("user_id", userID),
		zap.Int("records", len(records)))
	return nil
}

// Reset discards all in-memory state. Durable data is untouched; the next
// Initialize for the same user sees it again.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userID = ""
	e.records = nil
	e.goal = models.DefaultGoal
}

// AddIncome validates the input, creates a record with a fresh id, persists
// the updated sequence newest-first and returns the created record.
func (e *Engine) AddIncome(ctx context.Context, input IncomeInput) (models.IncomeRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" {
		return models.IncomeRecord{}, ErrNoActiveSession
	}
	if err := validateInput(input); err != nil {
		return models.IncomeRecord{}, err
	}

	record := models.IncomeRecord{
		ID:       uuid.New().String(),
		Source:   input.Source,
		Amount:   input.Amount,
		Date:     input.Date,
		Category: input.Category,
	}

	next := make([]models.IncomeRecord, 0, len(e.records)+1)
	next = append(next, record)
	next = append(next, e.records...)

	if err := e.store.SaveRecords(ctx, e.userID, next); err != nil {
		return models.IncomeRecord{}, fmt.Errorf("persisting records: %w", err)
	}
	e.records = next

	e.publish(events.TopicIncomeRecorded, events.IncomeRecorded{
		UserID:     e.userID,
		RecordID:   record.ID,
		Source:     record.Source,
		Amount:     record.Amount,
		Date:       record.Date,
		Category:   record.Category,
		OccurredAt: time.Now().UTC(),
	})
	e.log.Info("income recorded",
		zap.String("user_id", e.userID),
		zap.String("record_id", record.ID),
		zap.String("category", record.Category))
	return record, nil
}

// DeleteIncome removes the record with the given id if present and reports
// whether a removal occurred. An unknown id is a no-op, not an error.
func (e *Engine) DeleteIncome(ctx context.Context, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" {
		return false, ErrNoActiveSession
	}

	next := make([]models.IncomeRecord, 0, len(e.records))
	found := false
	for _, r := range e.records {
		if r.ID == id {
			found = true
			continue
		}
		next = append(next, r)
	}
	if !found {
		return false, nil
	}

	if err := e.store.SaveRecords(ctx, e.userID, next); err != nil {
		return false, fmt.Errorf("persisting records: %w", err)
	}
	e.records = next

	e.publish(events.TopicIncomeDeleted, events.IncomeDeleted{
		UserID:     e.userID,
		RecordID:   id,
		OccurredAt: time.Now().UTC(),
	})
	return true, nil
}

// SetGoal validates and persists a new monthly target.
func (e *Engine) SetGoal(ctx context.Context, value decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" {
		return ErrNoActiveSession
	}
	if value.IsNegative() {
		return &ValidationError{Field: "goal", Reason: "must not be negative"}
	}

	if err := e.store.SaveGoal(ctx, e.userID, value); err != nil {
		return fmt.Errorf("persisting goal: %w", err)
	}
	e.goal = value

	e.publish(events.TopicGoalChanged, events.GoalChanged{
		UserID:     e.userID,
		Goal:       value,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Goal returns the current monthly target.
func (e *Engine) Goal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goal
}

// Records returns a copy of the current record sequence, newest first.
func (e *Engine) Records() []models.IncomeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.IncomeRecord, len(e.records))
	copy(out, e.records)
	return out
}

// Aggregates recomputes the derived summary from the latest committed state.
func (e *Engine) Aggregates() Aggregates {
	e.mu.Lock()
	defer e.mu.Unlock()

	byCategory := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, r := range e.records {
		byCategory[r.Category] = byCategory[r.Category].Add(r.Amount)
		total = total.Add(r.Amount)
	}

	ratio := 0.0
	if e.goal.IsPositive() {
		ratio, _ = total.Div(e.goal).Float64()
		if ratio > 1 {
			ratio = 1
		}
	}

	return Aggregates{
		TotalByCategory: byCategory,
		TotalOverall:    total,
		ProgressRatio:   ratio,
		RecordCount:     len(e.records),
	}
}

func (e *Engine) publish(topic string, event any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(topic, event); err != nil {
		e.log.Warn("event publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

func validateInput(input IncomeInput) error {
	if input.Source == "" {
		return &ValidationError{Field: "source", Reason: "must not be empty"}
	}
	if input.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if input.Date == "" {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be formatted YYYY-MM-DD"}
	}
	if input.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}
