package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"plantcare/internal/delivery/http/response"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/service"
)

// uploadCategories restricts where photos can land in the object store.
var uploadCategories = map[string]struct{}{
	"user":  {},
	"plant": {},
}

// UploadHandler accepts photo uploads and returns the storage key callers
// persist on their profile or plants.
type UploadHandler struct {
	storage service.PhotoStorage
	logger  *slog.Logger
}

// NewUploadHandler is the constructor for UploadHandler, injected by Fx.
func NewUploadHandler(storage service.PhotoStorage, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		logger:  logger,
	}
}

type uploadView struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload stores a multipart photo under a fresh key namespaced by account and
// category.
func (h *UploadHandler) Upload(c echo.Context) error {
	authUser, err := requireAuthUser(c)
	if err != nil {
		return err
	}

	category := c.Param("category")
	if _, ok := uploadCategories[category]; !ok {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown upload category")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Missing file in upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	key := strconv.FormatInt(authUser.ID, 10) + "/" + category + "/" + uuid.New().String() + filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	if err := h.storage.Upload(c.Request().Context(), key, file, contentType); err != nil {
		h.logger.Error("Photo upload failed", slog.String("key", key), slog.Any("error", err))

		return errors.Wrap(err, "failed to store uploaded photo")
	}

	return response.Success(c, http.StatusCreated, uploadView{
		Key: key,
		URL: h.storage.URL(key),
	}, "Photo uploaded successfully")
}
