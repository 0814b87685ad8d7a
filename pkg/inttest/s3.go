package inttest

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/localstack"
	"github.com/stretchr/testify/require"
)

// SetupS3 creates an S3 container (using localstack). Every directory in path becomes a bucket
// holding the files found below it, so uploads can be seeded.
func SetupS3(t *testing.T, path string) *S3Client {
	t.Helper()

	container, err := gnomock.Start(
		localstack.Preset(
			localstack.WithServices(localstack.S3),
			localstack.WithS3Files(path),
			localstack.WithVersion("2.1.0"),
		),
	)
	require.NoError(t, err, "failed to start S3")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop S3") })

	endpoint := fmt.Sprintf("http://%s/", container.Address(localstack.APIPort))
	return &S3Client{
		Client: s3.NewFromConfig(
			aws.Config{
				Region:      "eu-west-1",
				Credentials: aws.AnonymousCredentials{},
			},
			func(o *s3.Options) {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			},
		),
	}
}

// S3Client reads what a file store wrote to S3. The wrapped client is exposed for anything the
// helpers don't cover.
type S3Client struct {
	Client *s3.Client
}

// S3Object is a stored upload as seen by S3.
type S3Object struct {
	Body        []byte
	ContentType string
}

func (sc *S3Client) GetObject(t *testing.T, bucket, key string) S3Object {
	t.Helper()

	object, err := sc.Client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	errMsg := "failed GET from S3 bucket %q and key %q"
	require.NoErrorf(t, err, errMsg, bucket, key)
	defer object.Body.Close()

	body, err := io.ReadAll(object.Body)
	require.NoErrorf(t, err, errMsg+": failed to read body", bucket, key)
	return S3Object{Body: body, ContentType: aws.ToString(object.ContentType)}
}

// Keys lists the keys stored under prefix, for example a namespace like "uploads-event/".
func (sc *S3Client) Keys(t *testing.T, bucket, prefix string) []string {
	t.Helper()

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(sc.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		require.NoErrorf(t, err, "failed to list S3 bucket %q with prefix %q", bucket, prefix)
		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}
	return keys
}
