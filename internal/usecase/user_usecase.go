// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"plantcare/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput defines the mutable profile fields. Nil pointers leave
// the current value untouched.
type UpdateProfileInput struct {
	UserID   int64
	Name     *string
	Email    *string
	Password *string // Plaintext; hashed before storage.
	Photo    *string // Object-storage key.
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the session token after a successful login.
type LoginOutput struct {
	AccessToken string
	TokenType   string
}

// ProfileOutput is the owner-facing profile view with the photo key resolved
// to a URL.
type ProfileOutput struct {
	ID       int64
	Name     string
	Email    string
	PhotoURL string
}

// UserUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, userID int64) (*ProfileOutput, error)
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error)
}
