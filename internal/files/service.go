// Package files is the storage gateway: it validates uploads, derives object
// keys, lists stored objects and issues presigned download links.
package files

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"slices"
	"strings"
	"time"

	"github.com/filedrop/gateway/internal/errs"
	"github.com/filedrop/gateway/internal/storage"
)

const (
	// DefaultFolder is where uploads land and what listings show by default.
	DefaultFolder = "uploads/"

	// MaxFileSize is the largest accepted upload, 10 MiB.
	MaxFileSize int64 = 10 << 20

	// DefaultLinkTTL is the download link lifetime in seconds when none is given.
	DefaultLinkTTL = 60

	// MaxLinkTTL is the longest lifetime SigV4 presigning allows, 7 days.
	MaxLinkTTL = 7 * 24 * 60 * 60
)

// AllowedTypes is the upload MIME allow-list.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
}

// StoredObject is one listing entry.
type StoredObject struct {
	Key          string     `json:"key"                    example:"uploads/report.pdf"`
	LastModified *time.Time `json:"lastModified,omitempty" example:"2026-01-30T12:00:00Z"`
	Size         *int64     `json:"size,omitempty"         example:"10240"`
}

// UploadInput is a single file received by the HTTP layer.
type UploadInput struct {
	Payload     []byte
	Filename    string
	ContentType string
	Size        int64 // as declared by the client
}

// Service contains the gateway logic on top of an object store.
type Service struct {
	store  storage.ObjectStore
	logger *slog.Logger
}

// NewService creates a new files Service.
func NewService(store storage.ObjectStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// IsAllowedType reports whether contentType's media type is in AllowedTypes.
// Parameters such as "; charset=binary" are ignored.
func IsAllowedType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return slices.Contains(AllowedTypes, mediaType)
}

// Upload validates in, stores it under folder and returns the key. An empty
// folder means DefaultFolder. Nothing is written when validation fails.
func (s *Service) Upload(ctx context.Context, in UploadInput, folder string) (string, error) {
	if len(in.Payload) == 0 {
		return "", errs.InvalidInput(`no file provided under "file" field`)
	}
	if !IsAllowedType(in.ContentType) {
		return "", errs.InvalidInput("invalid file type. Allowed types: " + strings.Join(AllowedTypes, ", "))
	}
	if in.Size > MaxFileSize || int64(len(in.Payload)) > MaxFileSize {
		return "", errs.InvalidInput(fmt.Sprintf("file too large: the limit is %d bytes", MaxFileSize))
	}

	if folder == "" {
		folder = DefaultFolder
	}
	key, err := Key(folder, in.Filename)
	if err != nil {
		return "", err
	}

	err = s.store.Put(ctx, key, bytes.NewReader(in.Payload), int64(len(in.Payload)), strings.TrimSpace(in.ContentType))
	if err != nil {
		s.logger.ErrorContext(ctx, "storage upload failed", slog.String("key", key), slog.Any("error", err))
		return "", errs.Wrap(errs.KindStorageUnavailable, "failed to upload file", err)
	}

	s.logger.InfoContext(ctx, "file uploaded", slog.String("key", key), slog.Int("size", len(in.Payload)))
	return key, nil
}

// List returns every object under prefix, newest first. Objects without a
// timestamp sort as the Unix epoch; ties keep the store's order.
func (s *Service) List(ctx context.Context, prefix string) ([]StoredObject, error) {
	raw, err := s.store.List(ctx, prefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "storage list failed", slog.String("prefix", prefix), slog.Any("error", err))
		return nil, errs.Wrap(errs.KindStorageUnavailable, "failed to list files", err)
	}

	out := make([]StoredObject, 0, len(raw))
	for _, obj := range raw {
		out = append(out, StoredObject{
			Key:          obj.Key,
			LastModified: obj.LastModified,
			Size:         obj.Size,
		})
	}

	slices.SortStableFunc(out, func(a, b StoredObject) int {
		return modTime(b).Compare(modTime(a))
	})
	return out, nil
}

func modTime(o StoredObject) time.Time {
	if o.LastModified == nil {
		return time.Unix(0, 0)
	}
	return *o.LastModified
}

// Link returns a presigned download URL for key valid for expiresIn seconds.
// Zero means DefaultLinkTTL. The key is not checked for existence.
func (s *Service) Link(ctx context.Context, key string, expiresIn int) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errs.InvalidInput(`missing "key" query parameter`)
	}
	if expiresIn == 0 {
		expiresIn = DefaultLinkTTL
	}
	if expiresIn < 0 || expiresIn > MaxLinkTTL {
		return "", errs.InvalidInput(fmt.Sprintf(`"expiresIn" must be between 1 and %d seconds`, MaxLinkTTL))
	}

	url, err := s.store.PresignGet(ctx, key, time.Duration(expiresIn)*time.Second)
	if err != nil {
		s.logger.ErrorContext(ctx, "storage presign failed", slog.String("key", key), slog.Any("error", err))
		return "", errs.Wrap(errs.KindStorageUnavailable, "failed to generate download link", err)
	}
	return url, nil
}
