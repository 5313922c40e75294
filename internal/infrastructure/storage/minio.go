package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"libreria-backend/internal/config"
)

// MinIOStorage stores cover images in a MinIO bucket. The locator kept in
// book records is the full public URL of the object.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates the client and ensures the bucket exists.
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

var _ BlobStore = (*MinIOStorage)(nil)

func (s *MinIOStorage) Store(ctx context.Context, data []byte, originalName, contentType string) (*BlobHandle, error) {
	if err := validateCover(data, originalName, contentType); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	key := fmt.Sprintf("covers/%s%s", uuid.NewString(), ext)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &BlobHandle{
		Key:         key,
		Locator:     s.objectURL(key),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	// RemoveObject on an absent key succeeds, which gives us idempotent cleanup.
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// ResolveKey derives the object key from a locator URL. The expected shape is
// scheme://endpoint/bucket/key; a locator pointing at another host or bucket
// returns "" so callers skip the delete.
func (s *MinIOStorage) ResolveKey(locator string) string {
	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.Host != s.client.EndpointURL().Host {
		return ""
	}

	prefix := "/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return ""
	}

	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return ""
	}

	return key
}

func (s *MinIOStorage) objectURL(key string) string {
	endpoint := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", endpoint.Scheme, endpoint.Host, s.bucket, key)
}
