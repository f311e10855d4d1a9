package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"plantcare/internal/delivery/http/response"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/usecase"
)

// AccessTokenHandler holds dependencies for guest-delegation handlers.
type AccessTokenHandler struct {
	uc     usecase.AccessTokenUsecase
	logger *slog.Logger
}

// NewAccessTokenHandler is the constructor for AccessTokenHandler, injected by Fx.
func NewAccessTokenHandler(uc usecase.AccessTokenUsecase, logger *slog.Logger) *AccessTokenHandler {
	return &AccessTokenHandler{
		uc:     uc,
		logger: logger,
	}
}

type createAccessTokenRequest struct {
	GuestName string    `json:"guest_name" validate:"required,min=3,max=100"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type accessTokenView struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	GuestName string    `json:"guest_name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// List returns the caller's guest delegations, secrets included. Only the
// owner ever reaches this route.
func (h *AccessTokenHandler) List(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	tokens, err := h.uc.ListAccessTokens(c.Request().Context(), authUser.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]accessTokenView, 0, len(tokens))
	for _, token := range tokens {
		views = append(views, toAccessTokenView(token))
	}

	return response.Success(c, http.StatusOK, views, "Access tokens retrieved successfully")
}

// Create mints a new guest delegation.
func (h *AccessTokenHandler) Create(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	var req createAccessTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid access token input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	token, err := h.uc.CreateAccessToken(c.Request().Context(), &usecase.CreateAccessTokenInput{
		OwnerID: authUser.ID,
		Label:   req.GuestName,
		EndDate: req.EndDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccessTokenView(token), "Access token created successfully")
}

// Delete revokes a delegation.
func (h *AccessTokenHandler) Delete(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	tokenID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAccessToken(c.Request().Context(), authUser.ID, tokenID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Access token deleted successfully")
}

// Authorize is the public exchange: a guest presents the opaque secret from
// the path and receives a guest session token.
func (h *AccessTokenHandler) Authorize(c echo.Context) error {
	secret := c.Param("token")
	if secret == "" {
		return domainerrors.ErrGuestTokenInvalid.WrapMessage("missing access token")
	}

	output, err := h.uc.Authorize(c.Request().Context(), secret)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokenView{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
	}, "Guest session issued successfully")
}

// InviteQR streams the invite QR code of an owned delegation as PNG.
func (h *AccessTokenHandler) InviteQR(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	tokenID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.uc.InviteQR(c.Request().Context(), authUser.ID, tokenID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func toAccessTokenView(token *entity.AccessToken) accessTokenView {
	return accessTokenView{
		ID:        token.ID,
		Token:     token.Secret,
		GuestName: token.Label,
		StartDate: token.StartDate,
		EndDate:   token.EndDate,
	}
}
