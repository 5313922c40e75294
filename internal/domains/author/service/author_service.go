package service

import (
	"context"
	"strings"

	"libreria-backend/internal/domains/author/model"
	"libreria-backend/internal/domains/author/repository"
)

type authorService struct {
	repo repository.Repository
}

func NewAuthorService(repo repository.Repository) Service {
	return &authorService{
		repo: repo,
	}
}

func (s *authorService) Create(ctx context.Context, req *model.AuthorRequest) (*model.Author, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Country = strings.TrimSpace(req.Country)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &model.Author{
		Name:    req.Name,
		Country: req.Country,
	})
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	if id <= 0 {
		return nil, model.ErrAuthorNotFound
	}

	return s.repo.GetByID(ctx, id)
}

func (s *authorService) GetAll(ctx context.Context) ([]model.Author, error) {
	return s.repo.GetAll(ctx)
}

func (s *authorService) Update(ctx context.Context, id int64, req *model.AuthorRequest) (*model.Author, error) {
	if id <= 0 {
		return nil, model.ErrAuthorNotFound
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Country = strings.TrimSpace(req.Country)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, &model.Author{
		ID:      id,
		Name:    req.Name,
		Country: req.Country,
	})
}

// Delete enforces the referential guard: an author who still owns books
// cannot be removed, and the caller learns how many books block it.
func (s *authorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrAuthorNotFound
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &model.DependentBooksError{Count: count}
	}

	return s.repo.Delete(ctx, id)
}
