// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core entity in the system, representing a single account.
// The account owns plants and may delegate limited access to guests via
// access tokens.
type User struct {
	ID           int64     // Primary identifier for the account.
	Email        string    // Unique email address, also used as the session token subject.
	PasswordHash string    // Bcrypt hash of the account password. Never leaves persistence and login.
	Name         string    // Display name.
	Photo        string    // Object-storage key of the profile photo, empty if none.
	CreatedAt    time.Time // Timestamp of registration.
	UpdatedAt    time.Time // Timestamp of the last profile change.
}
