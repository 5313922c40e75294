package repository

import (
	"context"

	"libreria-backend/internal/domains/author/model"
)

// Repository is the data-access contract for authors.
type Repository interface {
	// Create inserts a new author and returns it with ID and timestamps.
	Create(ctx context.Context, a *model.Author) (*model.Author, error)

	// GetByID retrieves an author with its books.
	// Returns model.ErrAuthorNotFound if the row does not exist.
	GetByID(ctx context.Context, id int64) (*model.Author, error)

	// GetAll retrieves all authors with their books, newest first.
	GetAll(ctx context.Context) ([]model.Author, error)

	// Update overwrites name and country.
	// Returns model.ErrAuthorNotFound if the row does not exist.
	Update(ctx context.Context, a *model.Author) (*model.Author, error)

	// Delete removes the author row. The service checks the book guard first.
	Delete(ctx context.Context, id int64) error

	// ExistsByID is the cheap existence check used by the book domain.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// CountBooks returns how many books reference this author.
	CountBooks(ctx context.Context, id int64) (int, error)
}
