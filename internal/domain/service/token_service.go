package service

import (
	"errors"
	"time"

	"plantcare/internal/domain/entity"
)

// ErrTokenInvalid is returned when a token's signature does not verify or the
// token is otherwise malformed.
var ErrTokenInvalid = errors.New("token invalid")

// ErrTokenExpired is returned when a token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// Claims is the decoded content of a session token.
type Claims struct {
	Subject   string          // The account email.
	Audience  entity.Audience // Privilege class; defaults to user when the claim is absent.
	ExpiresAt time.Time
}

// TokenService defines the interface for issuing and decoding signed,
// time-bound session tokens. Tokens are self-contained: validity is a pure
// function of the signing secret and the clock.
type TokenService interface {
	// Issue produces a signed token embedding subject, audience and an
	// absolute expiry of now+ttl.
	Issue(subject string, audience entity.Audience, ttl time.Duration) (string, error)

	// Decode verifies and unpacks a token, failing with ErrTokenInvalid on a
	// bad signature and ErrTokenExpired past the expiry.
	Decode(token string) (*Claims, error)

	// DefaultTTL returns the configured lifetime for owner session tokens.
	DefaultTTL() time.Duration
}
