package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/filedrop/gateway/internal/errs"
)

// MemoryStorage is an in-process ObjectStore for local development and tests.
// Presigned links are well-formed but not servable.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMemoryStorage returns an empty store for bucket.
func NewMemoryStorage(bucket string) *MemoryStorage {
	return &MemoryStorage{
		bucket:  bucket,
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (s *MemoryStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("put object", key, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return unavailable("put object", key, err)
	}
	if size >= 0 && int64(buf.Len()) != size {
		return unavailable("put object", key, fmt.Errorf("content length %d does not match body of %d bytes", size, buf.Len()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{
		data:         buf.Bytes(),
		contentType:  contentType,
		lastModified: s.now().UTC(),
	}
	return nil
}

// List returns matching objects in key order, like S3 does.
func (s *MemoryStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list objects", prefix, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		size := int64(len(obj.data))
		lm := obj.lastModified
		out = append(out, ObjectInfo{Key: key, Size: &size, LastModified: &lm})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", unavailable("presign get", key, err)
	}
	secs := int64(ttl / time.Second)
	if secs <= 0 {
		return "", errs.InvalidInput("link lifetime must be at least one second")
	}

	u := url.URL{
		Scheme:   "memory",
		Host:     s.bucket,
		Path:     "/" + key,
		RawQuery: url.Values{"X-Amz-Expires": {strconv.FormatInt(secs, 10)}}.Encode(),
	}
	return u.String(), nil
}

// Object returns a copy of the stored bytes and content type of key.
func (s *MemoryStorage) Object(key string) (data []byte, contentType string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(obj.data), obj.contentType, true
}
