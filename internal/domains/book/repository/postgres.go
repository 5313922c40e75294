package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"libreria-backend/internal/domains/book/model"
	"libreria-backend/pkg/cache"
	"libreria-backend/pkg/logger"
)

// postgresRepository implements Repository with pgxpool and a redis
// read-through cache on single-book lookups.
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
	bookCacheKeyPrefix = "book:"
	bookCacheTTL       = 15 * time.Minute

	foreignKeyViolation = "23503"
)

func bookCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", bookCacheKeyPrefix, id)
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        INSERT INTO books (title, year, cover_locator, author_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, title, year, cover_locator, author_id, created_at, updated_at
    `

	var created model.Book
	err := r.pool.QueryRow(ctx, query, b.Title, b.Year, b.CoverLocator, b.AuthorID).Scan(
		&created.ID,
		&created.Title,
		&created.Year,
		&created.CoverLocator,
		&created.AuthorID,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isAuthorFKViolation(err) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	r.invalidateAuthors(ctx)

	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	cacheKey := bookCacheKey(id)

	var cached model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := `
        SELECT b.id, b.title, b.year, b.cover_locator, b.author_id,
               b.created_at, b.updated_at,
               a.id, a.name, a.country
        FROM books b
        JOIN authors a ON a.id = b.author_id
        WHERE b.id = $1
    `

	var b model.Book
	var ref model.AuthorRef
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.Year,
		&b.CoverLocator,
		&b.AuthorID,
		&b.CreatedAt,
		&b.UpdatedAt,
		&ref.ID,
		&ref.Name,
		&ref.Country,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}
	b.Author = &ref

	// Cache failure is non-critical.
	if err := r.cache.Set(ctx, cacheKey, b, bookCacheTTL); err != nil {
		logger.Warn("failed to cache book", map[string]interface{}{
			"book_id": id,
			"error":   err.Error(),
		})
	}

	return &b, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]model.Book, error) {
	query := `
        SELECT b.id, b.title, b.year, b.cover_locator, b.author_id,
               b.created_at, b.updated_at,
               a.id, a.name, a.country
        FROM books b
        JOIN authors a ON a.id = b.author_id
        ORDER BY b.id DESC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		var b model.Book
		var ref model.AuthorRef
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Year,
			&b.CoverLocator,
			&b.AuthorID,
			&b.CreatedAt,
			&b.UpdatedAt,
			&ref.ID,
			&ref.Name,
			&ref.Country,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		b.Author = &ref
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        UPDATE books
        SET title = $1, year = $2, cover_locator = $3, author_id = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING id, title, year, cover_locator, author_id, created_at, updated_at
    `

	var updated model.Book
	err := r.pool.QueryRow(ctx, query, b.Title, b.Year, b.CoverLocator, b.AuthorID, b.ID).Scan(
		&updated.ID,
		&updated.Title,
		&updated.Year,
		&updated.CoverLocator,
		&updated.AuthorID,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		if isAuthorFKViolation(err) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	r.invalidate(ctx, b.ID)

	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.invalidate(ctx, id)

	return nil
}

func isAuthorFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// invalidate drops cached entries touched by a book write. Author detail
// responses embed their books, so author caches go too.
func (r *postgresRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, bookCacheKey(id)); err != nil {
		logger.Warn("failed to invalidate book cache", map[string]interface{}{
			"book_id": id,
			"error":   err.Error(),
		})
	}
	r.invalidateAuthors(ctx)
}

func (r *postgresRepository) invalidateAuthors(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, "author:*"); err != nil {
		logger.Warn("failed to invalidate author caches", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
