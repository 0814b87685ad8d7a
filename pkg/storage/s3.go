package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/delegasi/delegation-manager/internal/errdef"
)

func NewS3FileStore(logger *slog.Logger, bucket string, client AWSS3Client, uploader AWSS3Uploader) *S3FileStore {
	return &S3FileStore{
		logger:   logger,
		bucket:   bucket,
		client:   client,
		uploader: uploader,
	}
}

type S3FileStore struct {
	logger   *slog.Logger
	bucket   string
	client   AWSS3Client
	uploader AWSS3Uploader
}

type AWSS3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type AWSS3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

func (s S3FileStore) Put(ctx context.Context, key string, contentType string, body io.Reader, _ int64) error {
	// only use ctx for values (logging) and not cancellation signals. A cancelled request must not
	// leave a half written object behind.
	ctx = context.WithoutCancel(ctx)

	cleaned, err := cleanKey(key)
	if err != nil {
		return errdef.NewBadRequest("%v", err)
	}
	key = cleaned

	s.logger.InfoContext(ctx, "Uploading", "bucket", s.bucket, "key", key)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("error uploading object to bucket %q using key %q: %s", s.bucket, key, err)
	}
	return nil
}

func (s S3FileStore) Get(ctx context.Context, key string) (*Object, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return nil, errdef.NewNotFound("file %q not found", key)
	}
	key = cleaned

	object, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, errdef.NewNotFound("file %q not found", key)
		}
		return nil, fmt.Errorf("error downloading object from bucket %q using key %q: %s", s.bucket, key, err)
	}

	contentType := aws.ToString(object.ContentType)
	if contentType == "" {
		contentType = contentTypeByName(key)
	}

	return &Object{
		Body:        object.Body,
		ContentType: contentType,
		Size:        aws.ToInt64(object.ContentLength),
	}, nil
}
