package utils

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationMessages flattens an ozzo validation error into per-field
// messages for the response envelope. ok=false means err is not a
// validation error.
func ValidationMessages(err error) ([]string, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(verrs))
	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", field, verrs[field].Error()))
	}

	return messages, true
}
