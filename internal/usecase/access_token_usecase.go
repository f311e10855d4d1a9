package usecase

import (
	"context"
	"time"

	"plantcare/internal/domain/entity"
)

// --- Input DTOs ---

// CreateAccessTokenInput defines the data required to create a guest
// delegation. EndDate must lie in the future.
type CreateAccessTokenInput struct {
	OwnerID int64
	Label   string
	EndDate time.Time
}

// --- Output DTOs ---

// AuthorizeOutput returns the guest session token produced by exchanging an
// opaque access-token secret.
type AuthorizeOutput struct {
	AccessToken string
	TokenType   string
}

// AccessTokenUsecase defines owner-side management of guest delegations plus
// the public exchange endpoint guests use.
type AccessTokenUsecase interface {
	ListAccessTokens(ctx context.Context, ownerID int64) ([]*entity.AccessToken, error)
	CreateAccessToken(ctx context.Context, input *CreateAccessTokenInput) (*entity.AccessToken, error)
	DeleteAccessToken(ctx context.Context, ownerID, tokenID int64) error

	// Authorize exchanges the opaque secret for a guest-audience session
	// token whose TTL equals the delegation window's remaining lifetime.
	Authorize(ctx context.Context, secret string) (*AuthorizeOutput, error)

	// InviteQR renders the guest authorization URL of an owned delegation as
	// a PNG QR code.
	InviteQR(ctx context.Context, ownerID, tokenID int64) ([]byte, error)
}
