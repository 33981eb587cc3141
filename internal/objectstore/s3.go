// Package objectstore downloads uploaded documents from S3-compatible
// storage. The bucket itself is managed by the upload flow; this side only
// reads.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/cvpilot/cv-analyzer/internal/common"
)

type FileStore struct {
	client *s3.Client
	bucket string
}

func NewFileStore(ctx context.Context, cfg common.StorageConfig) (*FileStore, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	if cfg.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.EndpointURL)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &FileStore{client: client, bucket: cfg.Bucket}, nil
}

// Client exposes the underlying S3 client for health probes.
func (fs *FileStore) Client() *s3.Client {
	return fs.client
}

// Download fetches the object at key into memory. Missing objects map to
// ErrNotFound and permission failures to ErrAccessDenied; both are fatal for
// the job attempt.
func (fs *FileStore) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapDownloadError(key, err)
	}
	defer result.Body.Close()

	body, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body %q: %w", key, err)
	}
	return body, nil
}

func mapDownloadError(key string, err error) error {
	var notFound *s3types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: object %q", common.ErrNotFound, key)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: object %q", common.ErrNotFound, key)
		case "AccessDenied":
			return fmt.Errorf("%w: object %q", common.ErrAccessDenied, key)
		}
	}
	return fmt.Errorf("download object %q: %w", key, err)
}
