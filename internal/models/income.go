package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts encode as JSON numbers, matching the stored payload format.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultGoal is the monthly target used when a user has never set one.
var DefaultGoal = decimal.NewFromInt(500)

// IncomeRecord is a single extra-income event in a user's ledger.
// Records are immutable once created; the only mutation is deletion.
type IncomeRecord struct {
	ID       string          `json:"id"`       // unique within the owning user's ledger
	Source   string          `json:"source"`   // where the money came from
	Amount   decimal.Decimal `json:"amount"`   // non-negative
	Date     string          `json:"date"`     // YYYY-MM-DD
	Category string          `json:"category"` // free-form category label
}
