package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libreria-backend/internal/domains/author/model"
	"libreria-backend/pkg/cache"
	"libreria-backend/pkg/logger"
)

// postgresRepository implements Repository with pgxpool and a redis
// read-through cache on single-author lookups.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const (
	authorCacheKeyPrefix = "author:"
	authorCacheTTL       = 15 * time.Minute
)

func authorCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", authorCacheKeyPrefix, id)
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, country)
        VALUES ($1, $2)
        RETURNING id, name, country, created_at, updated_at
    `

	var created model.Author
	err := r.pool.QueryRow(ctx, query, a.Name, a.Country).Scan(
		&created.ID,
		&created.Name,
		&created.Country,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	cacheKey := authorCacheKey(id)

	var cached model.Author
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := `
        SELECT id, name, country, created_at, updated_at
        FROM authors
        WHERE id = $1
    `

	var a model.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Country,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	books, err := r.booksForAuthors(ctx, []int64{a.ID})
	if err != nil {
		return nil, err
	}
	a.Books = books[a.ID]
	if a.Books == nil {
		a.Books = []model.BookRef{}
	}

	// Cache failure is non-critical.
	if err := r.cache.Set(ctx, cacheKey, a, authorCacheTTL); err != nil {
		logger.Warn("failed to cache author", map[string]interface{}{
			"author_id": id,
			"error":     err.Error(),
		})
	}

	return &a, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]model.Author, error) {
	query := `
        SELECT id, name, country, created_at, updated_at
        FROM authors
        ORDER BY id DESC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	var ids []int64
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Country, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authors: %w", err)
	}

	if len(ids) == 0 {
		return []model.Author{}, nil
	}

	booksByAuthor, err := r.booksForAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		authors[i].Books = booksByAuthor[authors[i].ID]
		if authors[i].Books == nil {
			authors[i].Books = []model.BookRef{}
		}
	}

	return authors, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        UPDATE authors
        SET name = $1, country = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING id, name, country, created_at, updated_at
    `

	var updated model.Author
	err := r.pool.QueryRow(ctx, query, a.Name, a.Country, a.ID).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Country,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidate(ctx, a.ID)

	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	r.invalidate(ctx, id)

	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CountBooks(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count author books: %w", err)
	}
	return count, nil
}

// booksForAuthors loads the book back-references for a set of authors in one
// query and groups them by author id.
func (r *postgresRepository) booksForAuthors(ctx context.Context, ids []int64) (map[int64][]model.BookRef, error) {
	query := `
        SELECT id, title, year, cover_locator, author_id
        FROM books
        WHERE author_id = ANY($1)
        ORDER BY id DESC
    `

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load author books: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]model.BookRef)
	for rows.Next() {
		var ref model.BookRef
		var authorID int64
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Year, &ref.CoverLocator, &authorID); err != nil {
			return nil, fmt.Errorf("failed to scan book ref: %w", err)
		}
		result[authorID] = append(result[authorID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book refs: %w", err)
	}

	return result, nil
}

// invalidate drops cached entries touched by an author write. Book detail
// responses embed the author, so book caches go too.
func (r *postgresRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, authorCacheKey(id)); err != nil {
		logger.Warn("failed to invalidate author cache", map[string]interface{}{
			"author_id": id,
			"error":     err.Error(),
		})
	}
	if err := r.cache.DeletePattern(ctx, "book:*"); err != nil {
		logger.Warn("failed to invalidate book caches", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
