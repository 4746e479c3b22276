package interfaces

import "github.com/arrotondami/wealth-engine/internal/models"

// IdentityStore holds the durable pointer to the active user, independent of
// any ledger data.
type IdentityStore interface {
	// ActiveUser returns the last persisted active user, or nil when no user
	// is active. A corrupt stored pointer reads as nil, never as an error.
	ActiveUser() (*models.User, error)

	// SetActiveUser overwrites the active pointer with a full user snapshot.
	SetActiveUser(u models.User) error

	// ClearActiveUser removes the pointer. Per-user ledgers are untouched.
	ClearActiveUser() error
}
