package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deliverycontext "plantcare/internal/delivery/context"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
)

// capturingPhotoStorage records the key of the last upload.
type capturingPhotoStorage struct {
	uploadedKey string
}

func (s *capturingPhotoStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	s.uploadedKey = key

	return nil
}

func (s *capturingPhotoStorage) URL(key string) string {
	return "https://cdn.test/" + key
}

func newUploadContext(t *testing.T, category string, authUser *entity.AuthUser) echo.Context {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "ficus.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/upload/"+category, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("category")
	c.SetParamValues(category)
	if authUser != nil {
		c.Set(string(deliverycontext.KeyAuthUser), authUser)
	}

	return c
}

func TestUpload_KeyNamespacedByAccount(t *testing.T) {
	storage := &capturingPhotoStorage{}
	h := NewUploadHandler(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))

	owner := entity.NewOwnerAuthUser(&entity.User{ID: 7, Email: "example@mail.com"}, "")
	c := newUploadContext(t, "plant", owner)

	require.NoError(t, h.Upload(c))

	// Keys carry the account id and category so uploads never collide
	// across accounts.
	assert.True(t, strings.HasPrefix(storage.uploadedKey, "7/plant/"), storage.uploadedKey)
	assert.True(t, strings.HasSuffix(storage.uploadedKey, ".png"), storage.uploadedKey)
}

func TestUpload_UnknownCategory(t *testing.T) {
	storage := &capturingPhotoStorage{}
	h := NewUploadHandler(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))

	owner := entity.NewOwnerAuthUser(&entity.User{ID: 7, Email: "example@mail.com"}, "")
	c := newUploadContext(t, "garden", owner)

	err := h.Upload(c)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Empty(t, storage.uploadedKey)
}

func TestUpload_MissingIdentity(t *testing.T) {
	storage := &capturingPhotoStorage{}
	h := NewUploadHandler(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := h.Upload(newUploadContext(t, "plant", nil))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
