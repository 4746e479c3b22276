// Package memory provides an in-memory implementation of the identity and
// scoped ledger stores, used by tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arrotondami/wealth-engine/internal/interfaces"
	"github.com/arrotondami/wealth-engine/internal/models"
)

// Store keeps each user's records and goal in maps keyed by user id, so
// distinct users can never observe each other's data.
type Store struct {
	mu      sync.Mutex
	records map[string][]models.IncomeRecord
	goals   map[string]decimal.Decimal
	active  *models.User
}

func NewStore() *Store {
	return &Store{
		records: make(map[string][]models.IncomeRecord),
		goals:   make(map[string]decimal.Decimal),
	}
}

func (s *Store) LoadRecords(ctx context.Context, userID string) ([]models.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.records[userID]
	// Copy out so callers cannot mutate internal state.
	out := make([]models.IncomeRecord, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *Store) SaveRecords(ctx context.Context, userID string, records []models.IncomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.IncomeRecord, len(records))
	copy(stored, records)
	s.records[userID] = stored
	return nil
}

func (s *Store) LoadGoal(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[userID]
	if !ok {
		return models.DefaultGoal, nil
	}
	return goal, nil
}

func (s *Store) SaveGoal(ctx context.Context, userID string, goal decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals[userID] = goal
	return nil
}

func (s *Store) ActiveUser() (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, nil
	}
	u := *s.active
	return &u, nil
}

func (s *Store) SetActiveUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = &u
	return nil
}

func (s *Store) ClearActiveUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil
	return nil
}

// Compile-time checks: Store implements both storage contracts.
var (
	_ interfaces.LedgerStore   = (*Store)(nil)
	_ interfaces.IdentityStore = (*Store)(nil)
)
