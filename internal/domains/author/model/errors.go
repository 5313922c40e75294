package model

import (
	"errors"
	"fmt"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
)

// DependentBooksError rejects deleting an author who still owns books.
type DependentBooksError struct {
	Count int
}

func (e *DependentBooksError) Error() string {
	return fmt.Sprintf("cannot delete author with %d associated book(s); delete the books first", e.Count)
}
