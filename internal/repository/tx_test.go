//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver for goose
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
	"github.com/ReemHassan742/bookcatalog/migrations"
)

func newTestRepo(t *testing.T) *repository {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("catalog"),
		tcpostgres.WithUsername("catalog"),
		tcpostgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pg.Terminate(ctx))
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	goose.SetBaseFS(migrations.MigrationFiles)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))
	require.NoError(t, db.Close())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	r, err := NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	return r
}

// seedCatalog inserts one author, one genre and three of the author's
// books in that genre, each priced 10.00.
func seedCatalog(t *testing.T, r *repository) (authorID, genreID int64, bookIDs []int64) {
	t.Helper()
	ctx := context.Background()

	authorID, err := r.CreateAuthor(ctx, model.Author{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)
	genreID, err = r.CreateGenre(ctx, model.Genre{Name: "Science Fiction"})
	require.NoError(t, err)

	for i, isbn := range []string{"978-0-01", "978-0-02", "978-0-03"} {
		id, err := r.CreateBook(ctx, model.Book{
			Title:           "Dune " + isbn,
			ISBN:            isbn,
			PublicationYear: 1965 + i,
			Price:           decimal.RequireFromString("10.00"),
			IsAvailable:     true,
			AuthorID:        authorID,
			GenreID:         &genreID,
		})
		require.NoError(t, err)
		bookIDs = append(bookIDs, id)
	}
	return authorID, genreID, bookIDs
}

func requirePrices(t *testing.T, r *repository, bookIDs []int64, want string) {
	t.Helper()
	for _, id := range bookIDs {
		b, err := r.GetBook(context.Background(), id)
		require.NoError(t, err)
		require.True(t, b.Price.Equal(decimal.RequireFromString(want)),
			"book %d: price %s, want %s", id, b.Price, want)
	}
}

func TestWithTx_FaultRollsBackEveryWrite(t *testing.T) {
	r := newTestRepo(t)
	_, _, bookIDs := seedCatalog(t, r)
	ctx := context.Background()

	err := r.withTx(ctx, "test", func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `update books set price = 1.00`); err != nil {
			return err
		}
		return errors.New("interrupted")
	})
	require.Error(t, err)

	// The unit never committed, so all three stay at 10.00.
	requirePrices(t, r, bookIDs, "10.00")
}

func TestTransferOwnership(t *testing.T) {
	r := newTestRepo(t)
	_, _, bookIDs := seedCatalog(t, r)
	ctx := context.Background()

	newAuthorID, err := r.CreateAuthor(ctx, model.Author{FirstName: "Ursula", LastName: "Le Guin"})
	require.NoError(t, err)

	require.NoError(t, r.TransferOwnership(ctx, bookIDs[0], newAuthorID))
	b, err := r.GetBook(ctx, bookIDs[0])
	require.NoError(t, err)
	require.Equal(t, newAuthorID, b.AuthorID)

	err = r.TransferOwnership(ctx, bookIDs[1], int64(99999))
	require.ErrorIs(t, err, errs.ErrNotFound)
	b, err = r.GetBook(ctx, bookIDs[1])
	require.NoError(t, err)
	require.NotEqual(t, int64(99999), b.AuthorID)

	err = r.TransferOwnership(ctx, int64(99999), newAuthorID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDiscountGenre(t *testing.T) {
	r := newTestRepo(t)
	_, genreID, bookIDs := seedCatalog(t, r)
	ctx := context.Background()

	affected, err := r.DiscountGenre(ctx, genreID, decimal.RequireFromString("10"))
	require.NoError(t, err)
	require.EqualValues(t, 3, affected)
	requirePrices(t, r, bookIDs, "9.00")

	_, err = r.DiscountGenre(ctx, int64(99999), decimal.RequireFromString("50"))
	require.ErrorIs(t, err, errs.ErrNotFound)
	requirePrices(t, r, bookIDs, "9.00")
}

func TestBulkInsertBooks_AllOrNothing(t *testing.T) {
	r := newTestRepo(t)
	authorID, _, _ := seedCatalog(t, r)
	ctx := context.Background()

	// The second row collides with a seeded ISBN, so the first row must
	// not survive either.
	_, err := r.BulkInsertBooks(ctx, []model.Book{
		{Title: "fresh", ISBN: "978-0-04", PublicationYear: 2000, Price: decimal.RequireFromString("5.00"), AuthorID: authorID},
		{Title: "dup", ISBN: "978-0-01", PublicationYear: 2001, Price: decimal.RequireFromString("5.00"), AuthorID: authorID},
	})
	require.ErrorIs(t, err, errs.ErrDuplicateISBN)

	total, err := r.CountBooks(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	affected, err := r.BulkInsertBooks(ctx, []model.Book{
		{Title: "fresh", ISBN: "978-0-04", PublicationYear: 2000, Price: decimal.RequireFromString("5.00"), AuthorID: authorID},
		{Title: "another", ISBN: "978-0-05", PublicationYear: 2001, Price: decimal.RequireFromString("6.00"), AuthorID: authorID},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, affected)
}

func TestBulkDeleteBooks_ReportsResolvedRows(t *testing.T) {
	r := newTestRepo(t)
	_, _, bookIDs := seedCatalog(t, r)
	ctx := context.Background()

	affected, err := r.BulkDeleteBooks(ctx, []int64{bookIDs[0], 99999})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	total, err := r.CountBooks(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}
