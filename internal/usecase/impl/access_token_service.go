package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"plantcare/config"
	deliverycontext "plantcare/internal/delivery/context"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/domain/service"
	"plantcare/internal/usecase"
)

// authorizePathPrefix is the public exchange route a guest opens with the
// opaque secret appended.
const authorizePathPrefix = "/access-tokens/authorize/"

// accessTokenService implements the AccessTokenUsecase interface.
type accessTokenService struct {
	accessTokenRepo repository.AccessTokenRepository
	userRepo        repository.UserRepository
	tokenService    service.TokenService
	qrService       service.QRCodeService
	baseURL         string
	logger          *slog.Logger
}

// AccessTokenServiceParams holds dependencies for accessTokenService, injected by Fx.
type AccessTokenServiceParams struct {
	fx.In

	AccessTokenRepo repository.AccessTokenRepository
	UserRepo        repository.UserRepository
	TokenService    service.TokenService
	QRService       service.QRCodeService
	Config          *config.Config
	Logger          *slog.Logger
}

// NewAccessTokenService is the constructor for accessTokenService.
func NewAccessTokenService(params AccessTokenServiceParams) usecase.AccessTokenUsecase {
	baseURL := ""
	if params.Config != nil && params.Config.QRCode != nil {
		baseURL = strings.TrimRight(params.Config.QRCode.BaseURL, "/")
	}

	return &accessTokenService{
		accessTokenRepo: params.AccessTokenRepo,
		userRepo:        params.UserRepo,
		tokenService:    params.TokenService,
		qrService:       params.QRService,
		baseURL:         baseURL,
		logger:          params.Logger,
	}
}

func (srv *accessTokenService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAccessTokens returns the owner's delegations, newest window first.
func (srv *accessTokenService) ListAccessTokens(ctx context.Context, ownerID int64) ([]*entity.AccessToken, error) {
	tokens, err := srv.accessTokenRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list access tokens")
	}

	return tokens, nil
}

// CreateAccessToken mints a new delegation with a fresh opaque secret. The
// validity window opens now and must close in the future.
func (srv *accessTokenService) CreateAccessToken(ctx context.Context, input *usecase.CreateAccessTokenInput) (*entity.AccessToken, error) {
	now := time.Now()
	if !input.EndDate.After(now) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("end date must lie in the future")
	}

	token := &entity.AccessToken{
		Secret:    uuid.New().String(),
		Label:     input.Label,
		StartDate: now,
		EndDate:   input.EndDate,
		UserID:    input.OwnerID,
	}
	if err := srv.accessTokenRepo.Create(ctx, token); err != nil {
		srv.log(ctx).Warn("Failed to create access token", slog.Int64("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Access token created", slog.Int64("tokenID", token.ID), slog.Int64("ownerID", input.OwnerID))

	return token, nil
}

// DeleteAccessToken revokes a delegation. Session tokens already exchanged
// stay valid until their expiry; only future exchanges are cut off.
func (srv *accessTokenService) DeleteAccessToken(ctx context.Context, ownerID, tokenID int64) error {
	if err := srv.accessTokenRepo.DeleteByIDAndOwner(ctx, tokenID, ownerID); err != nil {
		if errors.Is(err, repository.ErrAccessTokenNotFound) {
			return domainerrors.ErrAccessTokenNotFound.WrapMessage("access token not found")
		}

		return errors.Wrap(err, "failed to delete access token")
	}

	srv.log(ctx).Debug("Access token deleted", slog.Int64("tokenID", tokenID), slog.Int64("ownerID", ownerID))

	return nil
}

// Authorize exchanges an opaque secret for a guest session token. An unknown
// secret fails as unauthorized, an expired window as forbidden. The issued
// token's TTL equals the window's remaining lifetime, so it cannot outlive
// the delegation as seen at exchange time.
func (srv *accessTokenService) Authorize(ctx context.Context, secret string) (*usecase.AuthorizeOutput, error) {
	record, err := srv.accessTokenRepo.FindBySecret(ctx, secret)
	if err != nil {
		if errors.Is(err, repository.ErrAccessTokenNotFound) {
			srv.log(ctx).Warn("Guest exchange with unknown secret")

			return nil, domainerrors.ErrGuestTokenInvalid.WrapMessage("unknown access token")
		}

		return nil, errors.Wrap(err, "failed to load access token")
	}

	now := time.Now()
	if record.Expired(now) {
		srv.log(ctx).Warn("Guest exchange with expired token", slog.Int64("tokenID", record.ID))

		return nil, domainerrors.ErrGuestTokenExpired.WrapMessage("access token has expired")
	}

	owner, err := srv.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load delegation owner")
	}

	sessionToken, err := srv.tokenService.Issue(owner.Email, entity.AudienceGuest, record.RemainingLifetime(now))
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue guest session token")
	}

	srv.log(ctx).Debug("Guest session issued", slog.Int64("tokenID", record.ID))

	return &usecase.AuthorizeOutput{
		AccessToken: sessionToken,
		TokenType:   bearerTokenType,
	}, nil
}

// InviteQR renders the authorization link of an owned delegation as a PNG QR
// code for handing to the guest.
func (srv *accessTokenService) InviteQR(ctx context.Context, ownerID, tokenID int64) ([]byte, error) {
	record, err := srv.accessTokenRepo.FindByIDAndOwner(ctx, tokenID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrAccessTokenNotFound) {
			return nil, domainerrors.ErrAccessTokenNotFound.WrapMessage("access token not found")
		}

		return nil, errors.Wrap(err, "failed to load access token")
	}

	authorizeURL := srv.baseURL + authorizePathPrefix + record.Secret

	png, err := srv.qrService.GuestInviteQR(authorizeURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render invite QR code")
	}

	return png, nil
}
