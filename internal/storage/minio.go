package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/filedrop/gateway/internal/config"
)

// MinioStorage implements ObjectStore with minio-go, which speaks to MinIO and
// any other S3-compatible provider.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage creates a MinIO client and makes sure the bucket exists.
func NewMinioStorage(ctx context.Context, cfg config.StorageConfig) (*MinioStorage, error) {
	client, err := newMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		slog.Info("storage: created bucket", slog.String("bucket", cfg.Bucket))
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

// newMinioClient accepts S3_ENDPOINT either as "host:port" or as a URL; an
// https scheme turns TLS on.
func newMinioClient(cfg config.StorageConfig) (*minio.Client, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return client, nil
}

func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		// bare "host:port"
		return endpoint, false, nil
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}

// Put streams body to the bucket under key.
func (s *MinioStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return unavailable("put object", key, err)
	}
	return nil
}

// List walks every object under prefix.
func (s *MinioStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	// Cancelling stops the listing goroutine if we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, unavailable("list objects", prefix, obj.Err)
		}

		info := ObjectInfo{Key: obj.Key}
		size := obj.Size
		info.Size = &size
		if !obj.LastModified.IsZero() {
			lm := obj.LastModified
			info.LastModified = &lm
		}
		out = append(out, info)
	}
	return out, nil
}

// PresignGet returns a time-limited download URL for key.
func (s *MinioStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		return "", unavailable("presign get", key, err)
	}
	return u.String(), nil
}
