// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"plantcare/internal/delivery/http/middleware"
	"plantcare/internal/delivery/http/response"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/usecase"
)

// UserHandler holds dependencies for account-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=10"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=10"`
	Photo    *string `json:"photo"`
}

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type profileView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Photo   string `json:"photo"`
	IsGuest bool   `json:"is_guest"`
}

type tokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles the account registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	view := userView{
		ID:    output.User.ID,
		Name:  output.User.Name,
		Email: output.User.Email,
	}

	return response.Success(c, http.StatusCreated, view, "Account registered successfully")
}

// Login handles the login request and returns a session token.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokenView{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
	}, "Login successful")
}

// Me returns the caller's identity view. Guests see the redacted placeholder
// resolved by the identity middleware, never the owner's profile.
func (h *UserHandler) Me(c echo.Context) error {
	authUser, ok := middleware.GetAuthUser(c)
	if !ok {
		return domainerrors.ErrUnauthorized.WrapMessage("identity missing from request")
	}

	return response.Success(c, http.StatusOK, profileView{
		ID:      authUser.ID,
		Name:    authUser.Name,
		Email:   authUser.Email,
		Photo:   authUser.Photo,
		IsGuest: authUser.IsGuest,
	}, "Profile retrieved successfully")
}

// UpdateMe applies partial profile changes for the owner.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	authUser, ok := middleware.GetAuthUser(c)
	if !ok {
		return domainerrors.ErrUnauthorized.WrapMessage("identity missing from request")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UpdateProfile(c.Request().Context(), &usecase.UpdateProfileInput{
		UserID:   authUser.ID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Photo:    req.Photo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profileView{
		ID:    output.ID,
		Name:  output.Name,
		Email: output.Email,
		Photo: output.PhotoURL,
	}, "Profile updated successfully")
}

// requireAuthUser pulls the identity resolved by the middleware chain.
func requireAuthUser(c echo.Context) (*entity.AuthUser, error) {
	authUser, ok := middleware.GetAuthUser(c)
	if !ok {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("identity missing from request")
	}

	return authUser, nil
}

// Root reports basic service information.
func Root(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"service": "plantcare"}, "Service is running")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
