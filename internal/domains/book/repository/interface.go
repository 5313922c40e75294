package repository

import (
	"context"

	"libreria-backend/internal/domains/book/model"
)

// Repository is the data-access contract for books.
type Repository interface {
	// Create inserts a new book and returns it with ID and timestamps.
	// The author back-reference is not populated; use GetByID for that.
	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// GetByID retrieves a book joined with its author.
	// Returns model.ErrBookNotFound if the row does not exist.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// GetAll retrieves all books joined with their authors, newest first.
	GetAll(ctx context.Context) ([]model.Book, error)

	// Update overwrites title, year, author and cover locator.
	// Returns model.ErrBookNotFound if the row does not exist.
	Update(ctx context.Context, b *model.Book) (*model.Book, error)

	// Delete removes the book row.
	// Returns model.ErrBookNotFound if the row does not exist.
	Delete(ctx context.Context, id int64) error
}
