package model

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")

	// ErrAuthorNotFound is returned when author_id does not reference an
	// existing author at write time.
	ErrAuthorNotFound = errors.New("the specified author does not exist")
)
