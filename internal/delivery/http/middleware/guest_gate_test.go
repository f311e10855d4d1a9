package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deliverycontext "plantcare/internal/delivery/context"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
)

func TestGuestAllowed(t *testing.T) {
	tests := []struct {
		method  string
		path    string
		allowed bool
	}{
		{http.MethodGet, "/me", true},
		{http.MethodGet, "/my-plants", true},
		{http.MethodGet, "/my-plants/12", true},
		{http.MethodPost, "/my-plants/12/watering", true},

		{http.MethodPatch, "/me", false},
		{http.MethodPost, "/my-plants", false},
		{http.MethodPatch, "/my-plants/12", false},
		{http.MethodDelete, "/my-plants/12", false},
		{http.MethodPost, "/my-plants/watering", false},
		{http.MethodPost, "/my-plants/12/fertilizing", false},
		{http.MethodPost, "/my-plants/12/plant-disease", false},
		{http.MethodGet, "/my-plants/12/diseases", false},
		{http.MethodGet, "/access-tokens", false},
		{http.MethodPost, "/access-tokens", false},
		{http.MethodDelete, "/access-tokens/3", false},
		{http.MethodPost, "/upload/plant", false},

		// The id wildcard must stay strictly numeric.
		{http.MethodGet, "/my-plants/abc", false},
		{http.MethodGet, "/my-plants/12/", false},
		{http.MethodPost, "/my-plants//watering", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.allowed, guestAllowed(tt.method, tt.path))
		})
	}
}

func invokeGuestGate(t *testing.T, authUser *entity.AuthUser, method, path string) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authUser != nil {
		c.Set(string(deliverycontext.KeyAuthUser), authUser)
	}

	m := &AuthMiddleware{}
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	return m.GuestGate(next)(c)
}

func TestGuestGate_OwnerPassesEverywhere(t *testing.T) {
	owner := entity.NewOwnerAuthUser(&entity.User{ID: 1, Email: "example@mail.com"}, "")

	assert.NoError(t, invokeGuestGate(t, owner, http.MethodDelete, "/my-plants/12"))
	assert.NoError(t, invokeGuestGate(t, owner, http.MethodGet, "/access-tokens"))
}

func TestGuestGate_GuestAllowedRoute(t *testing.T) {
	guest := entity.NewGuestAuthUser(1)

	assert.NoError(t, invokeGuestGate(t, guest, http.MethodGet, "/my-plants/12"))
}

func TestGuestGate_GuestForbiddenRoute(t *testing.T) {
	guest := entity.NewGuestAuthUser(1)

	err := invokeGuestGate(t, guest, http.MethodDelete, "/my-plants/12")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode())
}

func TestGuestGate_MissingIdentity(t *testing.T) {
	err := invokeGuestGate(t, nil, http.MethodGet, "/me")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
}
