package ledger

import (
	"errors"
	"fmt"
)

// ErrNoActiveSession is returned by mutations and reads that require an
// initialized ledger when no user has been loaded.
var ErrNoActiveSession = errors.New("no active session")

// ValidationError rejects a mutation before any state change. The already
// persisted ledger is untouched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
