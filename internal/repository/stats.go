package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

func (r *repository) CountAuthors(ctx context.Context) (int64, error) {
	return r.count(ctx, authorsTable)
}

func (r *repository) CountGenres(ctx context.Context) (int64, error) {
	return r.count(ctx, genresTable)
}

func (r *repository) CountAvailableBooks(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("count(*)").
		From(booksTable).
		Where(sq.Eq{"is_available": true}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count available")
	}
	return n, nil
}

func (r *repository) AveragePrice(ctx context.Context) (decimal.Decimal, error) {
	query, args, err := qb.Select("coalesce(avg(price), 0)").From(booksTable).ToSql()
	if err != nil {
		return decimal.Zero, err
	}
	var avg decimal.Decimal
	if err := r.db.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return decimal.Zero, errors.Wrap(err, "average price")
	}
	return avg, nil
}

func (r *repository) MostExpensiveBook(ctx context.Context) (model.Book, error) {
	return r.topBookByPrice(ctx, "b.price DESC")
}

func (r *repository) CheapestBook(ctx context.Context) (model.Book, error) {
	return r.topBookByPrice(ctx, "b.price ASC")
}

func (r *repository) topBookByPrice(ctx context.Context, order string) (model.Book, error) {
	books, err := r.selectBooks(ctx, r.booksQuery().OrderBy(order, "b.id ASC").Limit(1))
	if err != nil {
		return model.Book{}, err
	}
	if len(books) == 0 {
		return model.Book{}, errs.ErrNotFound
	}
	return books[0], nil
}

// YearBreakdown buckets the catalog by publication year, newest first.
func (r *repository) YearBreakdown(ctx context.Context) ([]model.YearStats, error) {
	const q = `
	select publication_year, count(*) as cnt, round(avg(price), 2) as avg_price
	from books
	group by publication_year
	order by publication_year desc`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "year breakdown")
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.YearStats])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return stats, nil
}

// GenreBreakdown buckets the catalog by genre, heaviest genre first.
// Genres without books and books without a genre are excluded.
func (r *repository) GenreBreakdown(ctx context.Context) ([]model.GenreStats, error) {
	const q = `
	select g.name, count(b.id) as cnt, round(avg(b.price), 2) as avg_price
	from genres g
	    join books b on b.genre_id = g.id
	group by g.name
	order by cnt desc, g.name asc`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "genre breakdown")
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.GenreStats])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return stats, nil
}

func (r *repository) TotalCatalogValue(ctx context.Context) (decimal.Decimal, error) {
	query, args, err := qb.Select("coalesce(sum(price), 0)").From(booksTable).ToSql()
	if err != nil {
		return decimal.Zero, err
	}
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, errors.Wrap(err, "catalog value")
	}
	return sum, nil
}
