package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/delegasi/delegation-manager/pkg/config"
	"github.com/gosimple/slug"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// FileStore stores uploaded files under keys of the form "<namespace>/<name>".
type FileStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (*Object, error)
}

// Object is a stored file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectName returns a unique name for a file uploaded as part fieldName. The name is prefixed with
// the upload time in milliseconds and keeps the extension of the original file name.
func ObjectName(now time.Time, fieldName string, originalName string) string {
	ext := path.Ext(originalName)
	base := slug.Make(strings.TrimSuffix(path.Base(originalName), ext))
	name := fmt.Sprintf("%d-%s", now.UnixMilli(), fieldName)
	if base != "" {
		name += "-" + base
	}
	return name + strings.ToLower(ext)
}

// cleanKey rejects keys which could escape the namespace they're stored in.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}

// NewFileStore returns the FileStore selected by c.Backend.
func NewFileStore(ctx context.Context, logger *slog.Logger, c config.Storage) (FileStore, error) {
	switch c.Backend {
	case "local":
		return NewLocalFileStore(logger, c.Directory), nil
	case "s3":
		cfg, err := awsConfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %v", err)
		}
		client := s3.NewFromConfig(cfg)
		uploader := manager.NewUploader(client)
		return NewS3FileStore(logger, c.Bucket, client, uploader), nil
	case "minio":
		client, err := minio.New(c.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.MinIO.AccessKey, c.MinIO.SecretKey, ""),
			Secure: c.MinIO.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create MinIO client: %v", err)
		}
		return NewMinIOFileStore(logger, c.Bucket, client), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", c.Backend)
	}
}
