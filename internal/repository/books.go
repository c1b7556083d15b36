package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	return r.selectBooks(ctx, r.booksQuery().OrderBy("b.id ASC"))
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	books, err := r.selectBooks(ctx, r.booksQuery().Where(sq.Eq{"b.id": id}).Limit(1))
	if err != nil {
		return model.Book{}, err
	}
	if len(books) == 0 {
		return model.Book{}, errs.ErrNotFound
	}
	return books[0], nil
}

func (r *repository) ListBooksByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	return r.selectBooks(ctx, r.booksQuery().
		Where(sq.Eq{"b.author_id": authorID}).
		OrderBy("b.title ASC"))
}

// SearchBooks matches the term against the title and the author's full
// name, case-insensitively. Empty terms are rejected by the service
// before this is reached.
func (r *repository) SearchBooks(ctx context.Context, term string) ([]model.Book, error) {
	pattern := "%" + term + "%"
	return r.selectBooks(ctx, r.booksQuery().
		Where(sq.Or{
			sq.ILike{"b.title": pattern},
			sq.Expr("concat_ws(' ', a.first_name, a.last_name) ILIKE ?", pattern),
		}).
		OrderBy("b.title ASC"))
}

func (r *repository) ListBooksByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]model.Book, error) {
	return r.selectBooks(ctx, r.booksQuery().
		Where(sq.GtOrEq{"b.price": min}).
		Where(sq.LtOrEq{"b.price": max}).
		OrderBy("b.price ASC"))
}

func (r *repository) ListBooksByYear(ctx context.Context, year int) ([]model.Book, error) {
	return r.selectBooks(ctx, r.booksQuery().
		Where(sq.Eq{"b.publication_year": year}).
		OrderBy("b.title ASC"))
}

// ListBooksByGenre matches the genre name case-insensitively. The query
// goes through the raw escape hatch.
func (r *repository) ListBooksByGenre(ctx context.Context, genre string) ([]model.Book, error) {
	const q = `
select b.id, b.title, b.isbn, b.publication_year, b.price,
       b.is_available, b.added_at, b.author_id, b.genre_id,
       a.id, a.first_name, a.last_name, a.biography, a.birth_date, a.country,
       g.id, g.name, g.description
from books b
    join authors a on a.id = b.author_id
    join genres g on g.id = b.genre_id
where lower(g.name) = lower($1)
order by b.title asc`
	return r.RawBooks(ctx, q, genre)
}

func (r *repository) ListBooksAfterYear(ctx context.Context, year int) ([]model.Book, error) {
	return r.selectBooks(ctx, r.booksQuery().
		Where(sq.Gt{"b.publication_year": year}).
		OrderBy("b.publication_year DESC"))
}

func (r *repository) ListBookPage(ctx context.Context, offset, limit uint64, sortKey string) ([]model.Book, error) {
	return r.selectBooks(ctx, r.booksQuery().
		OrderBy(orderForKey(sortKey)...).
		Offset(offset).
		Limit(limit))
}

// orderForKey maps a caller-facing sort key onto an order-by clause.
// Unrecognized keys fall back to title ascending.
func orderForKey(key string) []string {
	switch key {
	case "price":
		return []string{"b.price ASC"}
	case "year":
		return []string{"b.publication_year DESC"}
	case "author":
		return []string{"a.last_name ASC", "a.first_name ASC"}
	default:
		return []string{"b.title ASC"}
	}
}

func (r *repository) CountBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, booksTable)
}

func (r *repository) CountBooksByISBN(ctx context.Context, isbn string, excludeID int64) (int64, error) {
	q := qb.Select("count(*)").From(booksTable).Where(sq.Eq{"isbn": isbn})
	if excludeID != 0 {
		q = q.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count by isbn")
	}
	return n, nil
}

func (r *repository) CreateBook(ctx context.Context, b model.Book) (int64, error) {
	query, args, err := qb.Insert(booksTable).
		Columns("title", "isbn", "publication_year", "price", "is_available", "author_id", "genre_id").
		Values(b.Title, b.ISBN, b.PublicationYear, b.Price, b.IsAvailable, b.AuthorID, b.GenreID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.log.Error("CreateBook", zap.String("isbn", b.ISBN), zap.Error(err))
		return 0, wrapConstraint(err, "insert book")
	}
	return id, nil
}

// UpdateBook replaces every mutable field; identity and added_at are
// preserved.
func (r *repository) UpdateBook(ctx context.Context, b model.Book) error {
	query, args, err := qb.Update(booksTable).
		Set("title", b.Title).
		Set("isbn", b.ISBN).
		Set("publication_year", b.PublicationYear).
		Set("price", b.Price).
		Set("is_available", b.IsAvailable).
		Set("author_id", b.AuthorID).
		Set("genre_id", b.GenreID).
		Where(sq.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapConstraint(err, "update book")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete book")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// wrapConstraint converts a unique-index rejection into the typed
// duplicate error. The pre-check in the service makes this a race, not
// the normal path.
func wrapConstraint(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errors.Wrap(errs.ErrDuplicateISBN, msg)
	}
	return errors.Wrap(err, msg)
}
