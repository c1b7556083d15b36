package service

import (
	"context"

	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// GetBooksPage returns one sorted window of the catalog plus the totals
// callers need to render pagers. Sort keys: "title" (the default, also
// for unrecognized keys), "price", "year" (newest first), "author"
// (surname then given name). A page past the end yields empty items
// with still-correct totals.
func (s *Service) GetBooksPage(ctx context.Context, page, size int, sortKey string) (model.BookPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	total, err := s.repo.CountBooks(ctx)
	if err != nil {
		return model.BookPage{}, err
	}

	offset := uint64(page-1) * uint64(size)
	items, err := s.repo.ListBookPage(ctx, offset, uint64(size), sortKey)
	if err != nil {
		return model.BookPage{}, err
	}

	return model.BookPage{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalCount: total,
		TotalPages: totalPages(total, int64(size)),
	}, nil
}

func totalPages(total, size int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}
