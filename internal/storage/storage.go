// Package storage defines the object store boundary used by the file gateway.
// Any backend that can put, list and presign reads satisfies ObjectStore;
// NewObjectStore picks one from configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/filedrop/gateway/internal/config"
	"github.com/filedrop/gateway/internal/errs"
)

// ObjectInfo is a raw listing entry. Size and LastModified are nil when the
// backend did not report them.
type ObjectInfo struct {
	Key          string
	Size         *int64
	LastModified *time.Time
}

// ObjectStore is the interface for writing, listing and signing objects.
type ObjectStore interface {
	// Put writes size bytes from body under key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// PresignGet returns a URL granting read access to key for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewObjectStore builds the adapter named by cfg.Driver.
func NewObjectStore(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case config.DriverS3:
		return NewS3Storage(ctx, cfg)
	case config.DriverMinio:
		return NewMinioStorage(ctx, cfg)
	case config.DriverMemory:
		return NewMemoryStorage(cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func unavailable(op, key string, err error) error {
	return errs.Wrap(errs.KindStorageUnavailable, fmt.Sprintf("%s %q", op, key), err)
}
