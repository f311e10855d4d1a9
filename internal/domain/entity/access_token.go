package entity

import (
	"time"
)

// AccessToken is a persisted, time-boxed delegation record. The owner hands
// the opaque Secret to a guest, who exchanges it for a guest-audience session
// token. The record is immutable after creation and deleted by the owner at
// will.
type AccessToken struct {
	ID        int64     // Primary identifier of the record.
	Secret    string    // Opaque random token string (UUID), the bearer secret handed to the guest.
	Label     string    // Display label chosen by the owner, e.g. the guest's name.
	StartDate time.Time // Beginning of the validity window.
	EndDate   time.Time // End of the validity window; must lie in the future at creation time.
	UserID    int64     // Owning account.
	CreatedAt time.Time
}

// Expired reports whether the delegation window has closed.
func (t *AccessToken) Expired(now time.Time) bool {
	return t.EndDate.Before(now)
}

// RemainingLifetime returns how long the delegation window stays open from
// now. Guest session tokens are issued with exactly this TTL so they cannot
// outlive the record's validity window at the moment of exchange.
func (t *AccessToken) RemainingLifetime(now time.Time) time.Duration {
	return t.EndDate.Sub(now)
}
