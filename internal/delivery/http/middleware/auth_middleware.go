// Package middleware contains the HTTP middlewares: identity resolution,
// guest route gating, request logging and the error handler.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "plantcare/internal/delivery/context"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/domain/service"
)

// AuthMiddleware resolves the bearer session token into an AuthUser for the
// request. The token subject is the account email; the audience claim decides
// whether the principal is the owner or a guest acting on the owner's data.
type AuthMiddleware struct {
	tokenSvc     service.TokenService
	userRepo     repository.UserRepository
	photoStorage service.PhotoStorage
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository, photoStorage service.PhotoStorage) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:     tokenSvc,
		userRepo:     userRepo,
		photoStorage: photoStorage,
	}
}

// Authenticate validates the bearer token and stores the resolved identity on
// the context. Any failure along the chain reads as 401; the response does
// not say which step failed.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrUnauthorized.WrapMessage("authorization header missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return domainerrors.ErrUnauthorized.WrapMessage("authorization header is not a bearer token")
		}

		claims, err := m.tokenSvc.Decode(tokenString)
		if err != nil {
			return domainerrors.ErrUnauthorized.WrapMessage("invalid or expired token")
		}

		account, err := m.userRepo.FindByEmail(c.Request().Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUnauthorized.WrapMessage("token subject unknown")
			}

			return errors.Wrap(err, "failed to resolve token subject")
		}

		var authUser *entity.AuthUser
		if claims.Audience == entity.AudienceGuest {
			authUser = entity.NewGuestAuthUser(account.ID)
		} else {
			authUser = entity.NewOwnerAuthUser(account, m.photoStorage.URL(account.Photo))
		}

		c.Set(string(deliverycontext.KeyAuthUser), authUser)

		return next(c)
	}
}

// GetAuthUser extracts the resolved identity set by Authenticate.
func GetAuthUser(c echo.Context) (*entity.AuthUser, bool) {
	authUser, ok := c.Get(string(deliverycontext.KeyAuthUser)).(*entity.AuthUser)

	return authUser, ok
}
