package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// ListAuthors returns every author ordered by surname then given name,
// which the composite authors index serves directly.
func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	query, args, err := qb.Select("id", "first_name", "last_name", "biography", "birth_date", "country").
		From(authorsTable).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list authors")
	}
	defer rows.Close()

	authors, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return authors, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int64) (model.Author, error) {
	query, args, err := qb.Select("id", "first_name", "last_name", "biography", "birth_date", "country").
		From(authorsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Author{}, errors.Wrap(err, "get author")
	}
	defer rows.Close()

	author, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Author])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Author{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Author{}, errors.Wrap(err, "pgx.CollectOneRow")
	}
	return author, nil
}

func (r *repository) CreateAuthor(ctx context.Context, a model.Author) (int64, error) {
	query, args, err := qb.Insert(authorsTable).
		Columns("first_name", "last_name", "biography", "birth_date", "country").
		Values(a.FirstName, a.LastName, a.Biography, a.BirthDate, a.Country).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert author")
	}
	return id, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, a model.Author) error {
	query, args, err := qb.Update(authorsTable).
		Set("first_name", a.FirstName).
		Set("last_name", a.LastName).
		Set("biography", a.Biography).
		Set("birth_date", a.BirthDate).
		Set("country", a.Country).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update author")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteAuthor removes the author; the store cascades the delete to the
// author's books.
func (r *repository) DeleteAuthor(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(authorsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete author")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	query, args, err := qb.Select("id", "name", "description").
		From(genresTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list genres")
	}
	defer rows.Close()

	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return genres, nil
}

func (r *repository) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	query, args, err := qb.Select("id", "name", "description").
		From(genresTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Genre{}, errors.Wrap(err, "get genre")
	}
	defer rows.Close()

	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Genre])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Genre{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Genre{}, errors.Wrap(err, "pgx.CollectOneRow")
	}
	return genre, nil
}

func (r *repository) CreateGenre(ctx context.Context, g model.Genre) (int64, error) {
	query, args, err := qb.Insert(genresTable).
		Columns("name", "description").
		Values(g.Name, g.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert genre")
	}
	return id, nil
}

// DeleteGenre removes the genre; the store nulls the genre reference on
// its books.
func (r *repository) DeleteGenre(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(genresTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete genre")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
