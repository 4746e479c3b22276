// Package postgres implements the identity and scoped ledger stores on top of
// PostgreSQL, for deployments where the ledger should not live on the local
// filesystem. The storage contract is unchanged: per-user isolation and
// whole-sequence last-write-wins overwrites.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/interfaces"
	"github.com/arrotondami/wealth-engine/internal/models"
)

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func NewStore(db *sql.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// EnsureSchema creates the backing tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS income_records (
		user_id  TEXT    NOT NULL,
		id       TEXT    NOT NULL,
		source   TEXT    NOT NULL,
		amount   NUMERIC NOT NULL,
		date     TEXT    NOT NULL,
		category TEXT    NOT NULL,
		position INT     NOT NULL,
		PRIMARY KEY (user_id, id)
	);
	CREATE TABLE IF NOT EXISTS goals (
		user_id TEXT PRIMARY KEY,
		goal    NUMERIC NOT NULL
	);
	CREATE TABLE IF NOT EXISTS active_user (
		singleton BOOL PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		payload   JSONB NOT NULL
	);`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) LoadRecords(ctx context.Context, userID string) ([]models.IncomeRecord, error) {
	const query = `SELECT id, source, amount, date, category FROM income_records
	WHERE user_id = $1 ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying records for %s: %w", userID, err)
	}
	defer rows.Close()

	records := []models.IncomeRecord{}
	for rows.Next() {
		var r models.IncomeRecord
		if err := rows.Scan(&r.ID, &r.Source, &r.Amount, &r.Date, &r.Category); err != nil {
			return nil, fmt.Errorf("scanning record for %s: %w", userID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRecords overwrites the full stored sequence for userID. Delete and
// re-insert happen in one transaction so a reader never observes a partial
// sequence.
func (s *Store) SaveRecords(ctx context.Context, userID string, records []models.IncomeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM income_records WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing records for %s: %w", userID, err)
	}

	const insert = `INSERT INTO income_records (user_id, id, source, amount, date, category, position)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, r := range records {
		if _, err = tx.ExecContext(ctx, insert, userID, r.ID, r.Source, r.Amount, r.Date, r.Category, i); err != nil {
			return fmt.Errorf("inserting record %s for %s: %w", r.ID, userID, err)
		}
	}

	err = tx.Commit()
	return err
}

func (s *Store) LoadGoal(ctx context.Context, userID string) (decimal.Decimal, error) {
	const query = `SELECT goal FROM goals WHERE user_id = $1`

	var goal decimal.Decimal
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&goal)
	if err == sql.ErrNoRows {
		return models.DefaultGoal, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("querying goal for %s: %w", userID, err)
	}
	// Goals are non-negative by definition; a negative row can only come
	// from outside the application and reads as corrupt.
	if goal.IsNegative() {
		s.log.Warn("negative stored goal, using default",
			zap.String("user_id", userID), zap.String("goal", goal.String()))
		return models.DefaultGoal, nil
	}
	return goal, nil
}

func (s *Store) SaveGoal(ctx context.Context, userID string, goal decimal.Decimal) error {
	const query = `INSERT INTO goals (user_id, goal) VALUES ($1, $2)
	ON CONFLICT (user_id) DO UPDATE SET goal = EXCLUDED.goal`

	_, err := s.db.ExecContext(ctx, query, userID, goal)
	return err
}

func (s *Store) ActiveUser() (*models.User, error) {
	const query = `SELECT payload FROM active_user`

	var payload []byte
	err := s.db.QueryRow(query).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		s.log.Warn("corrupt active user payload, treating as logged out", zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

func (s *Store) SetActiveUser(u models.User) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding active user: %w", err)
	}

	const query = `INSERT INTO active_user (singleton, payload) VALUES (TRUE, $1)
	ON CONFLICT (singleton) DO UPDATE SET payload = EXCLUDED.payload`
	_, err = s.db.Exec(query, payload)
	return err
}

func (s *Store) ClearActiveUser() error {
	_, err := s.db.Exec(`DELETE FROM active_user`)
	return err
}

var (
	_ interfaces.LedgerStore   = (*Store)(nil)
	_ interfaces.IdentityStore = (*Store)(nil)
)
