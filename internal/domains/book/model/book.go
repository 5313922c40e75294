package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Book represents a row in the books table. CoverLocator is what the active
// blob store understands: a bare filename for local disk, a full URL for
// MinIO. Author is populated on joined reads.
type Book struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Year         int        `json:"year" db:"year"`
	CoverLocator *string    `json:"cover_locator" db:"cover_locator"`
	AuthorID     int64      `json:"author_id" db:"author_id"`
	Author       *AuthorRef `json:"author,omitempty"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AuthorRef is the author summary embedded in book responses.
type AuthorRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// BookRequest carries the writable fields for create and update. The cover
// itself travels separately as an uploaded blob handle.
type BookRequest struct {
	Title    string
	Year     int
	AuthorID int64
}

const (
	MinTitleLength = 1
	MaxTitleLength = 200
	MinYear        = 1000
)

// Validate enforces the book field constraints. The year ceiling tracks the
// wall clock: next year is the latest accepted publication year.
func (r BookRequest) Validate() error {
	maxYear := time.Now().Year() + 1

	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(MinTitleLength, MaxTitleLength),
		),
		validation.Field(&r.Year,
			validation.Required.Error("year is required"),
			validation.Min(MinYear),
			validation.Max(maxYear),
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error("author_id is required"),
			validation.Min(int64(1)).Error("author_id must be a positive integer"),
		),
	)
}
