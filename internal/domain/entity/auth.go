package entity

// Audience is a token claim distinguishing the privilege class of a session
// token: full account access or delegated guest access.
type Audience string

const (
	// AudienceUser marks a session token issued to the account owner.
	AudienceUser Audience = "user"

	// AudienceGuest marks a session token obtained through the access-token
	// exchange. Guests are restricted to an allowlisted set of routes.
	AudienceGuest Audience = "guest"
)

// GuestDisplayName is the placeholder name presented for guest principals.
const GuestDisplayName = "Guest"

// AuthUser is the authenticated identity derived from a session token. It is
// constructed fresh per request and never persisted. Guest principals carry
// only the owning account's id; everything else is redacted.
type AuthUser struct {
	ID      int64
	Name    string
	Email   string
	Photo   string // Derived photo URL for owners, empty for guests.
	IsGuest bool
}

// NewOwnerAuthUser builds the full identity view for the account owner.
func NewOwnerAuthUser(user *User, photoURL string) *AuthUser {
	return &AuthUser{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Photo:   photoURL,
		IsGuest: false,
	}
}

// NewGuestAuthUser builds the redacted identity view for a guest principal.
// Only the owning account's id survives; the guest acts on that account's
// resources without seeing its profile.
func NewGuestAuthUser(ownerID int64) *AuthUser {
	return &AuthUser{
		ID:      ownerID,
		Name:    GuestDisplayName,
		IsGuest: true,
	}
}
