package repository

import (
	"context"
	"errors"

	"plantcare/internal/domain/entity"
)

// ErrAccessTokenNotFound is returned when no access token matches the lookup.
var ErrAccessTokenNotFound = errors.New("access token not found")

// AccessTokenRepository defines persistence operations for guest access
// tokens. Records are immutable after creation; there is no update.
type AccessTokenRepository interface {
	// Create persists a new access token record.
	Create(ctx context.Context, token *entity.AccessToken) error

	// FindBySecret retrieves a record by its opaque secret string. This is
	// the lookup performed during the guest-authorization exchange.
	FindBySecret(ctx context.Context, secret string) (*entity.AccessToken, error)

	// FindByIDAndOwner retrieves a record by id, scoped to the owning
	// account. A record owned by a different account reads as not found.
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.AccessToken, error)

	// ListByOwner retrieves all access tokens created by an account.
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.AccessToken, error)

	// DeleteByIDAndOwner removes a record, scoped to the owning account.
	DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error
}
