package repository

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
)

func TestOrderForKey(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		key  string
		want []string
	}{
		{"title", []string{"b.title ASC"}},
		{"price", []string{"b.price ASC"}},
		{"year", []string{"b.publication_year DESC"}},
		{"author", []string{"a.last_name ASC", "a.first_name ASC"}},
		{"", []string{"b.title ASC"}},
		{"bogus", []string{"b.title ASC"}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, orderForKey(tt.key), "key %q", tt.key)
	}
}

func TestBooksQuerySQL(t *testing.T) {
	t.Parallel()

	r := &repository{}
	query, args, err := r.booksQuery().ToSql()
	require.NoError(t, err)
	require.Empty(t, args)
	require.Contains(t, query, "JOIN authors a ON a.id = b.author_id")
	require.Contains(t, query, "LEFT JOIN genres g ON g.id = b.genre_id")
}

func TestWrapConstraint(t *testing.T) {
	t.Parallel()

	t.Run("unique violation becomes duplicate isbn", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		err := wrapConstraint(pgErr, "insert book")
		require.ErrorIs(t, err, errs.ErrDuplicateISBN)
	})

	t.Run("wrapped unique violation still detected", func(t *testing.T) {
		t.Parallel()
		pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		err := wrapConstraint(errors.Wrap(pgErr, "exec"), "insert book")
		require.ErrorIs(t, err, errs.ErrDuplicateISBN)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()
		err := wrapConstraint(errors.New("connection reset"), "insert book")
		require.NotErrorIs(t, err, errs.ErrDuplicateISBN)
		require.Contains(t, err.Error(), "insert book")
	})
}
