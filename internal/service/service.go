package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
	"github.com/ReemHassan742/bookcatalog/internal/repository"
)

// Service mediates between the console client and the store: typed
// reads, validated writes, atomic multi-step mutations, aggregation,
// pagination and the time-bounded catalog cache.
type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	cache    *snapshotCache
	validate *validator.Validate
}

func NewService(repo repository.Repository, log *zap.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		cache:    newSnapshotCache(cacheTTL),
		validate: validator.New(),
	}
}

func (s *Service) GetAllBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

// GetCachedBooks serves the full catalog through the snapshot cache.
// Writes do not invalidate the snapshot; readers may observe results up
// to the staleness window old.
func (s *Service) GetCachedBooks(ctx context.Context) ([]model.Book, error) {
	return s.cache.get(ctx, s.repo.ListBooks)
}

func (s *Service) GetBookByID(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) GetBooksByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	return s.repo.ListBooksByAuthor(ctx, authorID)
}

// SearchBooks matches the term against titles and author names,
// case-insensitively. A blank term short-circuits to an empty result
// without touching the store.
func (s *Service) SearchBooks(ctx context.Context, term string) ([]model.Book, error) {
	if strings.TrimSpace(term) == "" {
		return []model.Book{}, nil
	}
	return s.repo.SearchBooks(ctx, term)
}

func (s *Service) GetBooksByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]model.Book, error) {
	return s.repo.ListBooksByPriceRange(ctx, min, max)
}

func (s *Service) GetBooksByYear(ctx context.Context, year int) ([]model.Book, error) {
	return s.repo.ListBooksByYear(ctx, year)
}

func (s *Service) GetBooksByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	return s.repo.ListBooksByGenre(ctx, genre)
}

func (s *Service) GetBooksPublishedAfter(ctx context.Context, year int) ([]model.Book, error) {
	return s.repo.ListBooksAfterYear(ctx, year)
}

// AddBook validates the fields and pre-checks ISBN uniqueness before
// writing, so callers get a descriptive error instead of a raw
// constraint rejection.
func (s *Service) AddBook(ctx context.Context, b model.Book) (int64, error) {
	if err := s.ValidateBook(b); err != nil {
		return 0, err
	}
	unique, err := s.IsISBNUnique(ctx, b.ISBN, 0)
	if err != nil {
		return 0, err
	}
	if !unique {
		return 0, errors.Wrap(errs.ErrDuplicateISBN, b.ISBN)
	}
	return s.repo.CreateBook(ctx, b)
}

// UpdateBook replaces every mutable field of the book, preserving its
// identity and creation timestamp.
func (s *Service) UpdateBook(ctx context.Context, b model.Book) error {
	if err := s.ValidateBook(b); err != nil {
		return err
	}
	unique, err := s.IsISBNUnique(ctx, b.ISBN, b.ID)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Wrap(errs.ErrDuplicateISBN, b.ISBN)
	}
	return s.repo.UpdateBook(ctx, b)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

// TransferOwnership reassigns the book to another author atomically.
// Unresolved identities surface as errs.ErrNotFound; any other failure
// is the wrapped store fault. Both leave no partial effect.
func (s *Service) TransferOwnership(ctx context.Context, bookID, authorID int64) error {
	return s.repo.TransferOwnership(ctx, bookID, authorID)
}

// ApplyGenreDiscount discounts every book in the genre by percent as
// one atomic unit and returns the number of books repriced.
func (s *Service) ApplyGenreDiscount(ctx context.Context, genreID int64, percent decimal.Decimal) (int64, error) {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return 0, &errs.ValidationError{Field: "percent", Message: "discount percent must be between 0 and 100"}
	}
	return s.repo.DiscountGenre(ctx, genreID, percent)
}

// ImportBooks validates the whole batch, then inserts it with a single
// commit. One bad row rejects the batch before anything is written.
func (s *Service) ImportBooks(ctx context.Context, books []model.Book) (int64, error) {
	for i := range books {
		if err := s.ValidateBook(books[i]); err != nil {
			return 0, errors.Wrapf(err, "book %d", i)
		}
	}
	return s.repo.BulkInsertBooks(ctx, books)
}

// RemoveBooks deletes the given book ids as one unit and reports how
// many rows actually existed and were removed.
func (s *Service) RemoveBooks(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.BulkDeleteBooks(ctx, ids)
}

func (s *Service) GetAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) GetAuthorByID(ctx context.Context, id int64) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) AddAuthor(ctx context.Context, in model.AuthorInput) (int64, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, &errs.ValidationError{Field: "author", Message: err.Error()}
	}
	return s.repo.CreateAuthor(ctx, model.Author{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Biography: in.Biography,
		BirthDate: in.BirthDate,
		Country:   in.Country,
	})
}

func (s *Service) UpdateAuthor(ctx context.Context, id int64, in model.AuthorInput) error {
	if err := s.validate.Struct(in); err != nil {
		return &errs.ValidationError{Field: "author", Message: err.Error()}
	}
	return s.repo.UpdateAuthor(ctx, model.Author{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Biography: in.Biography,
		BirthDate: in.BirthDate,
		Country:   in.Country,
	})
}

// DeleteAuthor removes the author and, through the store's cascade,
// every book the author owns.
func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Service) GetGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *Service) AddGenre(ctx context.Context, in model.GenreInput) (int64, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, &errs.ValidationError{Field: "genre", Message: err.Error()}
	}
	return s.repo.CreateGenre(ctx, model.Genre{Name: in.Name, Description: in.Description})
}

// DeleteGenre removes the genre; its books keep existing with the
// genre reference nulled by the store.
func (s *Service) DeleteGenre(ctx context.Context, id int64) error {
	return s.repo.DeleteGenre(ctx, id)
}
