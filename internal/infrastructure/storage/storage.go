package storage

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxCoverSize is the upload size ceiling for cover images.
const MaxCoverSize = 5 * 1024 * 1024 // 5 MiB

var (
	// ErrInvalidMediaType is returned when the payload is not an allowed image type.
	ErrInvalidMediaType = errors.New("only image files are allowed (jpeg, jpg, png, gif, webp)")

	// ErrSizeExceeded is returned when the payload is larger than MaxCoverSize.
	ErrSizeExceeded = errors.New("file exceeds the maximum size of 5MB")

	// ErrStoreUnavailable wraps backend I/O failures.
	ErrStoreUnavailable = errors.New("blob store unavailable")
)

// BlobHandle identifies a stored blob. Key is the store-internal identifier;
// Locator is what records persist (bare filename for the local backend, full
// URL for MinIO).
type BlobHandle struct {
	Key         string
	Locator     string
	Size        int64
	ContentType string
}

// BlobStore is the capability interface over cover blob storage. The backend
// (local disk or MinIO) is selected at startup; call sites never branch on it.
type BlobStore interface {
	// Store validates and persists a cover image, returning its handle.
	// Rejects non-image content and oversized payloads before writing.
	Store(ctx context.Context, data []byte, originalName, contentType string) (*BlobHandle, error)

	// Delete removes the blob with the given key. Deleting an absent blob
	// is not an error: callers use Delete for best-effort cleanup. Callers
	// holding only a locator must go through ResolveKey first.
	Delete(ctx context.Context, key string) error

	// ResolveKey derives the deletable key from a locator. Returns "" when
	// the locator does not belong to this store; callers must then skip the
	// delete rather than guess.
	ResolveKey(locator string) string
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// validateCover enforces the media-type and size limits shared by both
// backends. Checks the declared content type, the file extension and the
// sniffed content so a renamed binary does not slip through.
func validateCover(data []byte, originalName, contentType string) error {
	if int64(len(data)) > MaxCoverSize {
		return ErrSizeExceeded
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return ErrInvalidMediaType
	}

	if contentType != "" && !allowedContentTypes[strings.ToLower(contentType)] {
		return ErrInvalidMediaType
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return ErrInvalidMediaType
	}

	return nil
}
