package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Author represents a row in the authors table. Books carries the author's
// books when the row is fetched with its back-reference.
type Author struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Country   string    `json:"country" db:"country"`
	Books     []BookRef `json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BookRef is the book summary embedded in author responses.
type BookRef struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Year         int     `json:"year"`
	CoverLocator *string `json:"cover_locator"`
}

// AuthorRequest carries the writable fields for create and update. Both
// fields are required on update as well: authors do not support partial
// updates.
type AuthorRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

const (
	MinNameLength    = 2
	MaxNameLength    = 100
	MinCountryLength = 2
	MaxCountryLength = 50
)

// Validate enforces the author field constraints.
func (r AuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(MinNameLength, MaxNameLength),
		),
		validation.Field(&r.Country,
			validation.Required.Error("country is required"),
			validation.Length(MinCountryLength, MaxCountryLength),
		),
	)
}
