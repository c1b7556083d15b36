package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

// Repository is the store capability the service is built on: structured
// queries, atomic multi-step mutations and aggregates over the catalog.
type Repository interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooksByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)
	SearchBooks(ctx context.Context, term string) ([]model.Book, error)
	ListBooksByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]model.Book, error)
	ListBooksByYear(ctx context.Context, year int) ([]model.Book, error)
	ListBooksByGenre(ctx context.Context, genre string) ([]model.Book, error)
	ListBooksAfterYear(ctx context.Context, year int) ([]model.Book, error)
	ListBookPage(ctx context.Context, offset, limit uint64, sortKey string) ([]model.Book, error)
	CountBooks(ctx context.Context) (int64, error)
	CountBooksByISBN(ctx context.Context, isbn string, excludeID int64) (int64, error)
	CreateBook(ctx context.Context, b model.Book) (int64, error)
	UpdateBook(ctx context.Context, b model.Book) error
	DeleteBook(ctx context.Context, id int64) error
	RawBooks(ctx context.Context, query string, args ...any) ([]model.Book, error)

	ListAuthors(ctx context.Context) ([]model.Author, error)
	GetAuthor(ctx context.Context, id int64) (model.Author, error)
	CreateAuthor(ctx context.Context, a model.Author) (int64, error)
	UpdateAuthor(ctx context.Context, a model.Author) error
	DeleteAuthor(ctx context.Context, id int64) error

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (model.Genre, error)
	CreateGenre(ctx context.Context, g model.Genre) (int64, error)
	DeleteGenre(ctx context.Context, id int64) error

	TransferOwnership(ctx context.Context, bookID, authorID int64) error
	DiscountGenre(ctx context.Context, genreID int64, percent decimal.Decimal) (int64, error)
	BulkInsertBooks(ctx context.Context, books []model.Book) (int64, error)
	BulkDeleteBooks(ctx context.Context, ids []int64) (int64, error)

	CountAuthors(ctx context.Context) (int64, error)
	CountGenres(ctx context.Context) (int64, error)
	CountAvailableBooks(ctx context.Context) (int64, error)
	AveragePrice(ctx context.Context) (decimal.Decimal, error)
	MostExpensiveBook(ctx context.Context) (model.Book, error)
	CheapestBook(ctx context.Context) (model.Book, error)
	YearBreakdown(ctx context.Context) ([]model.YearStats, error)
	GenreBreakdown(ctx context.Context) ([]model.GenreStats, error)
	TotalCatalogValue(ctx context.Context) (decimal.Decimal, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

var _ Repository = (*repository)(nil)

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTable   = `books`
	authorsTable = `authors`
	genresTable  = `genres`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// booksQuery is the base of every book read: books joined with their
// author (mandatory) and genre (optional), so navigation values come
// back populated.
func (r *repository) booksQuery() sq.SelectBuilder {
	return qb.Select(
		"b.id", "b.title", "b.isbn", "b.publication_year", "b.price",
		"b.is_available", "b.added_at", "b.author_id", "b.genre_id",
		"a.id", "a.first_name", "a.last_name", "a.biography", "a.birth_date", "a.country",
		"g.id", "g.name", "g.description",
	).
		From(booksTable + " b").
		Join(authorsTable + " a ON a.id = b.author_id").
		LeftJoin(genresTable + " g ON g.id = b.genre_id")
}

func (r *repository) selectBooks(ctx context.Context, q sq.SelectBuilder) ([]model.Book, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build query")
	}
	return r.RawBooks(ctx, query, args...)
}

// RawBooks is the escape hatch for queries the structured builder cannot
// express. The query must project the same column set as booksQuery.
func (r *repository) RawBooks(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("RawBooks", zap.String("q", query), zap.Error(err))
		return nil, errors.Wrap(err, "query books")
	}
	defer rows.Close()

	return scanBooks(rows)
}

func scanBooks(rows pgx.Rows) ([]model.Book, error) {
	books := make([]model.Book, 0)
	for rows.Next() {
		var (
			b            model.Book
			a            model.Author
			genreID      *int64
			genreName    *string
			genreDetails *string
		)
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.Price,
			&b.IsAvailable, &b.AddedAt, &b.AuthorID, &b.GenreID,
			&a.ID, &a.FirstName, &a.LastName, &a.Biography, &a.BirthDate, &a.Country,
			&genreID, &genreName, &genreDetails,
		); err != nil {
			return nil, errors.Wrap(err, "scan book")
		}
		b.Author = &a
		if genreID != nil {
			b.Genre = &model.Genre{ID: *genreID, Name: *genreName, Description: genreDetails}
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *repository) count(ctx context.Context, table string) (int64, error) {
	query, args, err := qb.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "count %s", table)
	}
	return n, nil
}
