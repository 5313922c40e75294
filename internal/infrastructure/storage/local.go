package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage stores cover images on the local filesystem. The locator kept
// in book records is the bare filename inside the upload directory.
type LocalStorage struct {
	dir string
}

// NewLocalStorage ensures the upload directory exists and returns the store.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &LocalStorage{dir: dir}, nil
}

var _ BlobStore = (*LocalStorage)(nil)

func (s *LocalStorage) Store(ctx context.Context, data []byte, originalName, contentType string) (*BlobHandle, error) {
	if err := validateCover(data, originalName, contentType); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	key := fmt.Sprintf("cover-%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &BlobHandle{
		Key:         key,
		Locator:     key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	// Local keys are bare filenames; anything else is malformed and must
	// not turn into a path traversal.
	if s.ResolveKey(key) == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			// Idempotent cleanup: already gone counts as deleted.
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// ResolveKey accepts only bare filenames. Anything with a path separator is a
// foreign or malformed locator and must not be deleted.
func (s *LocalStorage) ResolveKey(locator string) string {
	if locator == "" {
		return ""
	}
	if strings.ContainsAny(locator, "/\\") || locator == "." || locator == ".." {
		return ""
	}
	return locator
}

// Exists reports whether a blob is present. Used by tests and the health
// endpoint, not by the request path.
func (s *LocalStorage) Exists(locator string) bool {
	key := s.ResolveKey(locator)
	if key == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, key))
	return err == nil
}
