package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

const minPublicationYear = 1000

// ValidateBook checks the field rules in order and stops at the first
// violation. A nil return means the book is valid; otherwise the
// returned *errs.ValidationError carries the violated rule's message.
func (s *Service) ValidateBook(b model.Book) error {
	if strings.TrimSpace(b.Title) == "" {
		return &errs.ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(b.ISBN) == "" {
		return &errs.ValidationError{Field: "isbn", Message: "isbn is required"}
	}
	maxYear := time.Now().Year() + 1
	if b.PublicationYear < minPublicationYear || b.PublicationYear > maxYear {
		return &errs.ValidationError{
			Field:   "publicationYear",
			Message: fmt.Sprintf("publication year must be between %d and %d", minPublicationYear, maxYear),
		}
	}
	if b.Price.IsNegative() {
		return &errs.ValidationError{Field: "price", Message: "price must not be negative"}
	}
	return nil
}

// IsISBNUnique reports whether no other book carries the ISBN. A
// non-zero excludeID ignores that book, for update scenarios. This is
// advisory; the store's unique index remains the final authority.
func (s *Service) IsISBNUnique(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	n, err := s.repo.CountBooksByISBN(ctx, isbn, excludeID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
