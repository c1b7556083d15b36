package cli

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ReemHassan742/bookcatalog/internal/model"
	"github.com/ReemHassan742/bookcatalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// CatalogService is everything the console menu needs from the service.
type CatalogService interface {
	GetAllBooks(ctx context.Context) ([]model.Book, error)
	GetCachedBooks(ctx context.Context) ([]model.Book, error)
	GetBookByID(ctx context.Context, id int64) (model.Book, error)
	GetBooksByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)
	SearchBooks(ctx context.Context, term string) ([]model.Book, error)
	GetBooksByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]model.Book, error)
	GetBooksByYear(ctx context.Context, year int) ([]model.Book, error)
	GetBooksByGenre(ctx context.Context, genre string) ([]model.Book, error)
	GetBooksPublishedAfter(ctx context.Context, year int) ([]model.Book, error)
	GetBooksPage(ctx context.Context, page, size int, sortKey string) (model.BookPage, error)

	AddBook(ctx context.Context, b model.Book) (int64, error)
	UpdateBook(ctx context.Context, b model.Book) error
	DeleteBook(ctx context.Context, id int64) error
	TransferOwnership(ctx context.Context, bookID, authorID int64) error
	ApplyGenreDiscount(ctx context.Context, genreID int64, percent decimal.Decimal) (int64, error)
	ImportBooks(ctx context.Context, books []model.Book) (int64, error)
	RemoveBooks(ctx context.Context, ids []int64) (int64, error)

	GetAuthors(ctx context.Context) ([]model.Author, error)
	AddAuthor(ctx context.Context, in model.AuthorInput) (int64, error)
	DeleteAuthor(ctx context.Context, id int64) error
	GetGenres(ctx context.Context) ([]model.Genre, error)
	AddGenre(ctx context.Context, in model.GenreInput) (int64, error)
	DeleteGenre(ctx context.Context, id int64) error

	GetStatistics(ctx context.Context) (model.Statistics, error)
	GetTotalCatalogValue(ctx context.Context) (decimal.Decimal, error)
}

var _ CatalogService = (*service.Service)(nil)
