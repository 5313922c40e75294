package service

import (
	"context"
	"fmt"
	"strings"

	"libreria-backend/internal/domains/book/model"
	"libreria-backend/internal/domains/book/repository"
	"libreria-backend/internal/infrastructure/storage"
	"libreria-backend/pkg/logger"
)

// AuthorChecker is the slice of the author repository the book service needs:
// author references are verified before a book is persisted, the FK is only
// the backstop. Satisfied by the author domain's Repository.
type AuthorChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type bookService struct {
	repo    repository.Repository
	blob    storage.BlobStore
	authors AuthorChecker
}

func NewBookService(repo repository.Repository, blob storage.BlobStore, authors AuthorChecker) Service {
	return &bookService{
		repo:    repo,
		blob:    blob,
		authors: authors,
	}
}

func (s *bookService) GetAll(ctx context.Context) ([]model.Book, error) {
	return s.repo.GetAll(ctx)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Create(ctx context.Context, req *model.BookRequest, upload *storage.BlobHandle) (*model.Book, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := req.Validate(); err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	if err := s.checkAuthor(ctx, req.AuthorID); err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	b := &model.Book{
		Title:    req.Title,
		Year:     req.Year,
		AuthorID: req.AuthorID,
	}
	if upload != nil {
		locator := upload.Locator
		b.CoverLocator = &locator
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	// Re-read for the joined author. The insert already committed, so a
	// read failure here must not surface as a create failure.
	if full, err := s.repo.GetByID(ctx, created.ID); err == nil {
		return full, nil
	}
	return created, nil
}

func (s *bookService) Update(ctx context.Context, id int64, req *model.BookRequest, upload *storage.BlobHandle, removeCover bool) (*model.Book, error) {
	if id <= 0 {
		s.discardUpload(ctx, upload)
		return nil, model.ErrBookNotFound
	}

	// The book must exist before anything else is judged; a missing row is
	// not a validation problem.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	if err := s.checkAuthor(ctx, req.AuthorID); err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	// Removal only means something when there is a cover to remove. With no
	// current cover a new upload still becomes the cover; only an actual
	// removal outranks it.
	if current.CoverLocator == nil {
		removeCover = false
	}
	if removeCover && upload != nil {
		s.discardUpload(ctx, upload)
		upload = nil
	}

	newLocator := current.CoverLocator
	var replaced *string
	switch {
	case removeCover:
		newLocator = nil
		replaced = current.CoverLocator
	case upload != nil:
		locator := upload.Locator
		newLocator = &locator
		replaced = current.CoverLocator
	}

	b := &model.Book{
		ID:           id,
		Title:        req.Title,
		Year:         req.Year,
		AuthorID:     req.AuthorID,
		CoverLocator: newLocator,
	}

	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		s.discardUpload(ctx, upload)
		return nil, err
	}

	// The record now references the new cover (or none); only at this
	// point is the old blob unreferenced and safe to remove.
	s.deleteCover(ctx, replaced)

	if full, err := s.repo.GetByID(ctx, updated.ID); err == nil {
		return full, nil
	}
	return updated, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrBookNotFound
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Row is gone; the cover is now garbage. Removal is best effort and
	// never fails the request.
	s.deleteCover(ctx, current.CoverLocator)

	return nil
}

func (s *bookService) checkAuthor(ctx context.Context, authorID int64) error {
	exists, err := s.authors.ExistsByID(ctx, authorID)
	if err != nil {
		return fmt.Errorf("failed to verify author: %w", err)
	}
	if !exists {
		return model.ErrAuthorNotFound
	}
	return nil
}

// discardUpload removes a freshly stored cover after the operation that
// needed it failed. Best effort: a leftover blob is logged, not surfaced.
func (s *bookService) discardUpload(ctx context.Context, upload *storage.BlobHandle) {
	if upload == nil {
		return
	}
	if err := s.blob.Delete(ctx, upload.Key); err != nil {
		logger.Warn("failed to discard uploaded cover", map[string]interface{}{
			"key":   upload.Key,
			"error": err.Error(),
		})
	}
}

// deleteCover removes the blob behind a stored locator. Locators the active
// store does not recognize (for example URLs written under a different
// backend) are skipped rather than guessed at.
func (s *bookService) deleteCover(ctx context.Context, locator *string) {
	if locator == nil || *locator == "" {
		return
	}

	key := s.blob.ResolveKey(*locator)
	if key == "" {
		logger.Debug("skipping cover delete for foreign locator", map[string]interface{}{
			"locator": *locator,
		})
		return
	}

	if err := s.blob.Delete(ctx, key); err != nil {
		logger.Warn("failed to delete cover blob", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
