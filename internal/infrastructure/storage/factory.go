package storage

import (
	"fmt"

	"libreria-backend/internal/config"
)

// NewBlobStore builds the configured backend. The choice is made once at
// startup; everything downstream sees only the BlobStore interface.
func NewBlobStore(cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStorage(cfg.UploadDir)
	case "minio":
		return NewMinIOStorage(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
