package models

import "time"

// User is the identity a ledger is scoped to. It is created once at signup by
// the auth surface and treated as immutable here.
type User struct {
	ID          string    `json:"id"`          // opaque stable identifier
	Name        string    `json:"name"`        // display name
	AvatarColor string    `json:"avatarColor"` // style tag chosen at signup
	CreatedAt   time.Time `json:"createdAt"`   // signup timestamp
}
