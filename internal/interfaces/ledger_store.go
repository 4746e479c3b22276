package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/arrotondami/wealth-engine/internal/models"
)

// LedgerStore is durable, per-user storage for income records and the goal
// value. Operations for distinct user ids never interact.
//
// Reads are lenient: a missing or unparseable records payload loads as an
// empty sequence, a missing or unparseable goal loads as models.DefaultGoal.
// Writes are last-write-wins whole-sequence overwrites.
type LedgerStore interface {
	LoadRecords(ctx context.Context, userID string) ([]models.IncomeRecord, error)
	SaveRecords(ctx context.Context, userID string, records []models.IncomeRecord) error
	LoadGoal(ctx context.Context, userID string) (decimal.Decimal, error)
	SaveGoal(ctx context.Context, userID string, goal decimal.Decimal) error
}
