package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/domain/service"
)

// fakeTokenService decodes a fixed table of token strings.
type fakeTokenService struct {
	claims map[string]*service.Claims
}

func (f *fakeTokenService) Issue(subject string, audience entity.Audience, ttl time.Duration) (string, error) {
	return "issued-token", nil
}

func (f *fakeTokenService) Decode(token string) (*service.Claims, error) {
	claims, ok := f.claims[token]
	if !ok {
		return nil, service.ErrTokenInvalid
	}

	return claims, nil
}

func (f *fakeTokenService) DefaultTTL() time.Duration {
	return 5 * 24 * time.Hour
}

// fakeUserRepo serves users keyed by email.
type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

// fakePhotoStorage derives URLs without any bucket.
type fakePhotoStorage struct{}

func (f *fakePhotoStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	return nil
}

func (f *fakePhotoStorage) URL(key string) string {
	if key == "" {
		return ""
	}

	return "https://cdn.test/" + key
}

func newTestAuthMiddleware() *AuthMiddleware {
	tokenSvc := &fakeTokenService{
		claims: map[string]*service.Claims{
			"owner-token": {
				Subject:   "example@mail.com",
				Audience:  entity.AudienceUser,
				ExpiresAt: time.Now().Add(time.Hour),
			},
			"guest-token": {
				Subject:   "example@mail.com",
				Audience:  entity.AudienceGuest,
				ExpiresAt: time.Now().Add(time.Hour),
			},
			"orphan-token": {
				Subject:   "gone@mail.com",
				Audience:  entity.AudienceUser,
				ExpiresAt: time.Now().Add(time.Hour),
			},
		},
	}
	userRepo := &fakeUserRepo{
		byEmail: map[string]*entity.User{
			"example@mail.com": {
				ID:    7,
				Name:  "Zuzya",
				Email: "example@mail.com",
				Photo: "user/zuzya.png",
			},
		},
	}

	return NewAuthMiddleware(tokenSvc, userRepo, &fakePhotoStorage{})
}

func invokeAuthenticate(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := newTestAuthMiddleware()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	return c, m.Authenticate(next)(c)
}

func TestAuthenticate_OwnerToken(t *testing.T) {
	c, err := invokeAuthenticate(t, "Bearer owner-token")
	require.NoError(t, err)

	authUser, ok := GetAuthUser(c)
	require.True(t, ok)
	assert.Equal(t, int64(7), authUser.ID)
	assert.Equal(t, "Zuzya", authUser.Name)
	assert.Equal(t, "example@mail.com", authUser.Email)
	assert.Equal(t, "https://cdn.test/user/zuzya.png", authUser.Photo)
	assert.False(t, authUser.IsGuest)
}

func TestAuthenticate_GuestToken_Redacted(t *testing.T) {
	c, err := invokeAuthenticate(t, "Bearer guest-token")
	require.NoError(t, err)

	authUser, ok := GetAuthUser(c)
	require.True(t, ok)
	assert.Equal(t, int64(7), authUser.ID)
	assert.Equal(t, entity.GuestDisplayName, authUser.Name)
	assert.Empty(t, authUser.Email)
	assert.Empty(t, authUser.Photo)
	assert.True(t, authUser.IsGuest)
}

func TestAuthenticate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"unknown token", "Bearer bogus-token"},
		{"subject no longer exists", "Bearer orphan-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invokeAuthenticate(t, tt.header)
			require.Error(t, err)

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
		})
	}
}
