package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an identity that does not resolve to a row.
	// Absence is an expected domain outcome, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateISBN is returned when the store rejects a write on the
	// books ISBN unique index, or when the advisory pre-check fails.
	ErrDuplicateISBN = errors.New("isbn already exists")
)

// ValidationError carries the first violated field rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
