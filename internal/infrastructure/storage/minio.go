package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"artist-platform/internal/config"
)

// MinIOStorage holds work content. Clients upload directly with a presigned PUT.
type MinIOStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	presignExpiry time.Duration
}

// NewMinIOStorage connects and creates the bucket when it is missing
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(client.EndpointURL().String(), "/")
	}
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &MinIOStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
		presignExpiry: expiry,
	}, nil
}

// PresignUpload returns a PUT URL for the object and the URL it will be served from
func (s *MinIOStorage) PresignUpload(ctx context.Context, objectKey, contentType string) (string, string, time.Time, error) {
	expiresAt := time.Now().Add(s.presignExpiry)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, objectKey, s.presignExpiry, nil,
		http.Header{"Content-Type": []string{contentType}})
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to presign upload: %w", err)
	}

	return u.String(), s.PublicURL(objectKey), expiresAt, nil
}

// PublicURL is the stable address stored in a work's content_url
func (s *MinIOStorage) PublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectKey)
}

// DeleteByPrefix removes every object under prefix, e.g. works/<owner>/
func (s *MinIOStorage) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return 0, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	for rmErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			return 0, fmt.Errorf("failed to remove %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}
	return len(keys), nil
}

func (s *MinIOStorage) HealthCheck(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("minio unreachable: %w", err)
	}
	return nil
}
