package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// withTx runs fn inside a single transaction: begin, fn, commit, with
// rollback on any failure. Rollback after a successful commit is a
// no-op. Every unit gets a correlation id for the logs.
func (r *repository) withTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	opID := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.log.Warn("tx rollback", zap.String("op", op), zap.String("opID", opID), zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		r.log.Debug("tx aborted", zap.String("op", op), zap.String("opID", opID), zap.Error(err))
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

// TransferOwnership reassigns a book to another author. Either identity
// failing to resolve aborts the unit with ErrNotFound and no partial
// effect.
func (r *repository) TransferOwnership(ctx context.Context, bookID, authorID int64) error {
	return r.withTx(ctx, "transfer", func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`select exists (select 1 from authors where id = $1)`, authorID).Scan(&exists); err != nil {
			return errors.Wrap(err, "resolve author")
		}
		if !exists {
			return errors.Wrap(errs.ErrNotFound, "author")
		}

		tag, err := tx.Exec(ctx, `update books set author_id = $2 where id = $1`, bookID, authorID)
		if err != nil {
			return errors.Wrap(err, "reassign book")
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrap(errs.ErrNotFound, "book")
		}
		return nil
	})
}

// DiscountGenre multiplies the price of every book in the genre by
// (1 - percent/100) as one unit and reports how many rows changed.
func (r *repository) DiscountGenre(ctx context.Context, genreID int64, percent decimal.Decimal) (int64, error) {
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))

	var affected int64
	err := r.withTx(ctx, "discount", func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`select exists (select 1 from genres where id = $1)`, genreID).Scan(&exists); err != nil {
			return errors.Wrap(err, "resolve genre")
		}
		if !exists {
			return errors.Wrap(errs.ErrNotFound, "genre")
		}

		q := `update books set price = round(price * @factor, 2) where genre_id = @genre_id`
		args := pgx.NamedArgs{
			"factor":   factor,
			"genre_id": genreID,
		}
		tag, err := tx.Exec(ctx, q, args)
		if err != nil {
			return errors.Wrap(err, "apply discount")
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// BulkInsertBooks inserts the batch with a single commit and returns
// the number of rows written.
func (r *repository) BulkInsertBooks(ctx context.Context, books []model.Book) (int64, error) {
	if len(books) == 0 {
		return 0, nil
	}

	q := qb.Insert(booksTable).
		Columns("title", "isbn", "publication_year", "price", "is_available", "author_id", "genre_id")
	for _, b := range books {
		q = q.Values(b.Title, b.ISBN, b.PublicationYear, b.Price, b.IsAvailable, b.AuthorID, b.GenreID)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var affected int64
	err = r.withTx(ctx, "bulk insert", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return wrapConstraint(err, "bulk insert")
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// BulkDeleteBooks removes the rows whose ids resolve and reports the
// count actually removed, which may be less than requested.
func (r *repository) BulkDeleteBooks(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := qb.Delete(booksTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, err
	}

	var affected int64
	err = r.withTx(ctx, "bulk delete", func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "bulk delete")
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
