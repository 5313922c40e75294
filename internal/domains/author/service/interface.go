package service

import (
	"context"

	"libreria-backend/internal/domains/author/model"
)

// Service is the business-logic contract for authors.
type Service interface {
	// Create validates the request and inserts a new author.
	Create(ctx context.Context, req *model.AuthorRequest) (*model.Author, error)

	// GetByID retrieves an author with its books.
	GetByID(ctx context.Context, id int64) (*model.Author, error)

	// GetAll lists all authors with their books, newest first.
	GetAll(ctx context.Context) ([]model.Author, error)

	// Update validates the request and overwrites both fields.
	Update(ctx context.Context, id int64, req *model.AuthorRequest) (*model.Author, error)

	// Delete removes an author. Fails with *model.DependentBooksError when
	// the author still owns books.
	Delete(ctx context.Context, id int64) error
}
