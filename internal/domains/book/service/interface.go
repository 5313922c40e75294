package service

import (
	"context"

	"libreria-backend/internal/domains/book/model"
	"libreria-backend/internal/infrastructure/storage"
)

// Service coordinates the record store and the blob store so that a failure
// on either side never strands a blob or a dangling cover reference.
//
// The cover upload is written to the blob store at the transport boundary;
// handlers pass the resulting handle in. Whenever an operation fails after a
// blob was uploaded, the service deletes that blob before returning.
type Service interface {
	// GetAll lists every book with its author.
	GetAll(ctx context.Context) ([]model.Book, error)

	// GetByID fetches one book with its author.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// Create validates req and inserts the book. upload is the already
	// stored cover, or nil when the request carried none. On any failure
	// the upload is removed from the blob store.
	Create(ctx context.Context, req *model.BookRequest, upload *storage.BlobHandle) (*model.Book, error)

	// Update overwrites the book's fields. upload, when non-nil, replaces
	// the current cover; removeCover drops an existing cover without a
	// replacement and, when there is one to drop, outranks upload. The
	// previous cover blob is deleted only after the record update succeeds.
	Update(ctx context.Context, id int64, req *model.BookRequest, upload *storage.BlobHandle, removeCover bool) (*model.Book, error)

	// Delete removes the book row first, then its cover blob.
	Delete(ctx context.Context, id int64) error
}
