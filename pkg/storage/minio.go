package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/minio/minio-go/v7"
)

func NewMinIOFileStore(logger *slog.Logger, bucket string, client *minio.Client) *MinIOFileStore {
	return &MinIOFileStore{
		logger: logger,
		bucket: bucket,
		client: client,
	}
}

type MinIOFileStore struct {
	logger *slog.Logger
	bucket string
	client *minio.Client
}

func (s MinIOFileStore) Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error {
	ctx = context.WithoutCancel(ctx)

	cleaned, err := cleanKey(key)
	if err != nil {
		return errdef.NewBadRequest("%v", err)
	}
	key = cleaned

	s.logger.InfoContext(ctx, "Uploading", "bucket", s.bucket, "key", key)
	_, err = s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("error uploading object to bucket %q using key %q: %s", s.bucket, key, err)
	}
	return nil
}

func (s MinIOFileStore) Get(ctx context.Context, key string) (*Object, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return nil, errdef.NewNotFound("file %q not found", key)
	}
	key = cleaned

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("error downloading object from bucket %q using key %q: %s", s.bucket, key, err)
	}

	// GetObject is lazy, errors like a missing key only surface once the object is accessed
	info, err := object.Stat()
	if err != nil {
		_ = object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errdef.NewNotFound("file %q not found", key)
		}
		return nil, fmt.Errorf("error reading object from bucket %q using key %q: %s", s.bucket, key, err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = contentTypeByName(key)
	}

	return &Object{
		Body:        object,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}
