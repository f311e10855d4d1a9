// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"plantcare/config"
	"plantcare/internal/domain/entity"
	"plantcare/internal/domain/service"
)

const hoursPerDay = 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     string        // Secret key for signing session tokens.
	defaultTTL time.Duration // Default lifetime for owner session tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret:     cfg.Auth.SecretKey,
		defaultTTL: time.Duration(cfg.Auth.TokenExpireDays) * hoursPerDay,
	}, nil
}

// Issue creates a signed session token carrying the subject and audience,
// expiring at now+ttl.
func (s *jwtService) Issue(subject string, audience entity.Audience, ttl time.Duration) (string, error) {
	if audience == "" {
		audience = entity.AudienceUser
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,             // Subject (the account email)
		"aud": string(audience),    // Privilege class: user or guest
		"iat": now.Unix(),          // Issued At
		"exp": now.Add(ttl).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Decode verifies the signature and expiry of a session token and unpacks its
// claims. The audience claim defaults to "user" when absent, for tokens
// issued before the guest audience existed.
func (s *jwtService) Decode(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}

		return nil, service.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, service.ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrTokenInvalid
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return nil, service.ErrTokenInvalid
	}

	expiry, err := mapClaims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil, service.ErrTokenInvalid
	}

	return &service.Claims{
		Subject:   subject,
		Audience:  audienceFromClaims(mapClaims),
		ExpiresAt: expiry.Time,
	}, nil
}

// DefaultTTL returns the configured lifetime for owner session tokens.
func (s *jwtService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// audienceFromClaims extracts the audience claim, tolerating both the string
// and string-list JWT encodings. Missing or empty means "user".
func audienceFromClaims(claims jwt.MapClaims) entity.Audience {
	switch aud := claims["aud"].(type) {
	case string:
		if aud != "" {
			return entity.Audience(aud)
		}
	case []any:
		if len(aud) > 0 {
			if first, ok := aud[0].(string); ok && first != "" {
				return entity.Audience(first)
			}
		}
	}

	return entity.AudienceUser
}
