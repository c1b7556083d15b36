package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// NoBooksFound is the display sentinel used when a statistic over books
// has no subject, e.g. the most expensive book of an empty catalog.
const NoBooksFound = "no books found"

// GetStatistics computes the catalog summary: entity totals,
// availability split, 2-decimal average price, the priciest and
// cheapest books and the per-year / per-genre breakdowns. An empty
// catalog yields zero counts, sentinel display strings and empty
// breakdowns.
func (s *Service) GetStatistics(ctx context.Context) (model.Statistics, error) {
	var stats model.Statistics
	var err error

	if stats.TotalBooks, err = s.repo.CountBooks(ctx); err != nil {
		return model.Statistics{}, err
	}
	if stats.TotalAuthors, err = s.repo.CountAuthors(ctx); err != nil {
		return model.Statistics{}, err
	}
	if stats.TotalGenres, err = s.repo.CountGenres(ctx); err != nil {
		return model.Statistics{}, err
	}
	if stats.AvailableBooks, err = s.repo.CountAvailableBooks(ctx); err != nil {
		return model.Statistics{}, err
	}
	stats.UnavailableBooks = stats.TotalBooks - stats.AvailableBooks

	avg, err := s.repo.AveragePrice(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	stats.AveragePrice = avg.Round(2)

	if stats.MostExpensive, err = s.bookDisplay(s.repo.MostExpensiveBook(ctx)); err != nil {
		return model.Statistics{}, err
	}
	if stats.Cheapest, err = s.bookDisplay(s.repo.CheapestBook(ctx)); err != nil {
		return model.Statistics{}, err
	}

	if stats.ByYear, err = s.repo.YearBreakdown(ctx); err != nil {
		return model.Statistics{}, err
	}
	if stats.ByGenre, err = s.repo.GenreBreakdown(ctx); err != nil {
		return model.Statistics{}, err
	}

	return stats, nil
}

// bookDisplay turns a single-book lookup into a display string, mapping
// the expected empty-catalog miss onto the sentinel.
func (s *Service) bookDisplay(b model.Book, err error) (string, error) {
	if errors.Is(err, errs.ErrNotFound) {
		return NoBooksFound, nil
	}
	if err != nil {
		return "", err
	}
	return b.Display(), nil
}

// GetTotalCatalogValue sums every book price; an empty catalog is worth
// zero.
func (s *Service) GetTotalCatalogValue(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.TotalCatalogValue(ctx)
}
