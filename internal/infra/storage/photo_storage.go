// Package storage implements photo persistence on top of gocloud.dev blob
// buckets, so the same code serves S3 in production and the local filesystem
// in development.
package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver
	_ "gocloud.dev/blob/s3blob"   // s3:// bucket driver

	"plantcare/config"
	"plantcare/internal/domain/service"
	"plantcare/internal/errors"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type blobPhotoStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// NewPhotoStorage opens the configured bucket and returns it as a
// service.PhotoStorage. The bucket is closed on shutdown.
func NewPhotoStorage(params Params) (service.PhotoStorage, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket url must be provided")
	}

	bucket, err := blob.OpenBucket(context.Background(), params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open photo bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobPhotoStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(params.Config.Storage.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the object under the given key.
func (s *blobPhotoStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(writer, body); err != nil {
		// Abort the write; Close would otherwise commit a partial object.
		_ = writer.Close()

		return errors.Wrap(err, "failed to write photo")
	}

	return errors.Wrap(writer.Close(), "failed to commit photo")
}

// URL derives the public URL for a stored key.
func (s *blobPhotoStorage) URL(key string) string {
	if key == "" {
		return ""
	}

	return s.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}
