// Package file is the default local-first storage backend. Each user's ledger
// lives in its own directory under the store root:
//
//	<root>/active_user.json        the active identity pointer
//	<root>/users/<id>/records.json the full record sequence, newest first
//	<root>/users/<id>/goal.json    the monthly goal
//
// Reads are lenient: a missing or unparseable payload falls back to the
// documented default (no user, empty sequence, default goal) with a warning
// logged, so a corrupt file can never take the application down. Writes go
// through a temp file and rename.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/interfaces"
	"github.com/arrotondami/wealth-engine/internal/models"
)

const (
	activeUserFile = "active_user.json"
	usersDir       = "users"
	recordsFile    = "records.json"
	goalFile       = "goal.json"
)

type Store struct {
	root string
	log  *zap.Logger
}

// NewStore creates the root directory if needed and returns a store over it.
func NewStore(root string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store root %q: %w", root, err)
	}
	return &Store{root: root, log: log}, nil
}

func (s *Store) LoadRecords(ctx context.Context, userID string) ([]models.IncomeRecord, error) {
	dir, err := s.userDir(userID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, recordsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.IncomeRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading records for %s: %w", userID, err)
	}

	var records []models.IncomeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("corrupt records payload, treating as empty",
			zap.String("user_id", userID), zap.Error(err))
		return []models.IncomeRecord{}, nil
	}
	return records, nil
}

func (s *Store) SaveRecords(ctx context.Context, userID string, records []models.IncomeRecord) error {
	dir, err := s.userDir(userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating user dir for %s: %w", userID, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records for %s: %w", userID, err)
	}
	return writeFileAtomic(filepath.Join(dir, recordsFile), data)
}

func (s *Store) LoadGoal(ctx context.Context, userID string) (decimal.Decimal, error) {
	dir, err := s.userDir(userID)
	if err != nil {
		return decimal.Zero, err
	}

	data, err := os.ReadFile(filepath.Join(dir, goalFile))
	if errors.Is(err, fs.ErrNotExist) {
		return models.DefaultGoal, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading goal for %s: %w", userID, err)
	}

	var goal decimal.Decimal
	if err := json.Unmarshal(data, &goal); err != nil {
		s.log.Warn("corrupt goal payload, using default",
			zap.String("user_id", userID), zap.Error(err))
		return models.DefaultGoal, nil
	}
	// Goals are non-negative by definition; a negative stored value can only
	// come from outside the application and reads as corrupt.
	if goal.IsNegative() {
		s.log.Warn("negative stored goal, using default",
			zap.String("user_id", userID), zap.String("goal", goal.String()))
		return models.DefaultGoal, nil
	}
	return goal, nil
}

func (s *Store) SaveGoal(ctx context.Context, userID string, goal decimal.Decimal) error {
	dir, err := s.userDir(userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating user dir for %s: %w", userID, err)
	}

	data, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("encoding goal for %s: %w", userID, err)
	}
	return writeFileAtomic(filepath.Join(dir, goalFile), data)
}

func (s *Store) ActiveUser() (*models.User, error) {
	data, err := os.ReadFile(filepath.Join(s.root, activeUserFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading active user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn("corrupt active user pointer, treating as logged out", zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

func (s *Store) SetActiveUser(u models.User) error {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding active user: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.root, activeUserFile), data)
}

func (s *Store) ClearActiveUser() error {
	err := os.Remove(filepath.Join(s.root, activeUserFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// userDir maps a user id to its directory. Ids are opaque but must not be
// able to escape the store root.
func (s *Store) userDir(userID string) (string, error) {
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return "", fmt.Errorf("invalid user id %q", userID)
	}
	return filepath.Join(s.root, usersDir, userID), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var (
	_ interfaces.LedgerStore   = (*Store)(nil)
	_ interfaces.IdentityStore = (*Store)(nil)
)
