package service_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
	"github.com/ReemHassan742/bookcatalog/internal/service"
)

func TestService_SearchBooks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blank term short-circuits without a query", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		for _, term := range []string{"", "   ", "\t\n"} {
			books, err := svc.SearchBooks(ctx, term)
			require.NoError(t, err)
			require.Empty(t, books)
		}
	})

	t.Run("matches via author relation", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		want := []model.Book{{
			ID:    1,
			Title: "1984",
			Author: &model.Author{
				FirstName: "George",
				LastName:  "Orwell",
			},
		}}
		repo.EXPECT().
			SearchBooks(ctx, "orwell").
			Return(want, nil)

		books, err := svc.SearchBooks(ctx, "orwell")
		require.NoError(t, err)
		require.Equal(t, want, books)
	})
}

func TestService_GetBooksPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("middle page by price", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		items := []model.Book{{ID: 3}, {ID: 4}}
		repo.EXPECT().CountBooks(ctx).Return(int64(5), nil)
		repo.EXPECT().
			ListBookPage(ctx, uint64(2), uint64(2), "price").
			Return(items, nil)

		page, err := svc.GetBooksPage(ctx, 2, 2, "price")
		require.NoError(t, err)
		require.Equal(t, items, page.Items)
		require.EqualValues(t, 5, page.TotalCount)
		require.EqualValues(t, 3, page.TotalPages)
	})

	t.Run("out-of-range page keeps totals", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().CountBooks(ctx).Return(int64(5), nil)
		repo.EXPECT().
			ListBookPage(ctx, uint64(18), uint64(2), "title").
			Return([]model.Book{}, nil)

		page, err := svc.GetBooksPage(ctx, 10, 2, "title")
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.EqualValues(t, 5, page.TotalCount)
		require.EqualValues(t, 3, page.TotalPages)
	})

	t.Run("page below one is clamped", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().CountBooks(ctx).Return(int64(5), nil)
		repo.EXPECT().
			ListBookPage(ctx, uint64(0), uint64(2), "title").
			Return([]model.Book{{ID: 1}, {ID: 2}}, nil)

		page, err := svc.GetBooksPage(ctx, 0, 2, "title")
		require.NoError(t, err)
		require.Equal(t, 1, page.Page)
		require.Len(t, page.Items, 2)
	})
}

func TestService_TransferOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing identity is a typed miss", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			TransferOwnership(ctx, int64(1), int64(99)).
			Return(errors.Wrap(errs.ErrNotFound, "author"))

		err := svc.TransferOwnership(ctx, 1, 99)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("other faults stay distinguishable", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			TransferOwnership(ctx, int64(1), int64(2)).
			Return(errors.New("commit tx: connection reset"))

		err := svc.TransferOwnership(ctx, 1, 2)
		require.Error(t, err)
		require.NotErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_ApplyGenreDiscount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("percent out of range never reaches the store", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		_, err := svc.ApplyGenreDiscount(ctx, 1, decimal.RequireFromString("101"))
		require.True(t, errs.IsValidation(err))

		_, err = svc.ApplyGenreDiscount(ctx, 1, decimal.RequireFromString("-5"))
		require.True(t, errs.IsValidation(err))
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		percent := decimal.RequireFromString("10")
		repo.EXPECT().
			DiscountGenre(ctx, int64(3), percent).
			Return(int64(3), nil)

		n, err := svc.ApplyGenreDiscount(ctx, 3, percent)
		require.NoError(t, err)
		require.EqualValues(t, 3, n)
	})
}

func TestService_GetStatistics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().CountBooks(ctx).Return(int64(0), nil)
		repo.EXPECT().CountAuthors(ctx).Return(int64(0), nil)
		repo.EXPECT().CountGenres(ctx).Return(int64(0), nil)
		repo.EXPECT().CountAvailableBooks(ctx).Return(int64(0), nil)
		repo.EXPECT().AveragePrice(ctx).Return(decimal.Zero, nil)
		repo.EXPECT().MostExpensiveBook(ctx).Return(model.Book{}, errs.ErrNotFound)
		repo.EXPECT().CheapestBook(ctx).Return(model.Book{}, errs.ErrNotFound)
		repo.EXPECT().YearBreakdown(ctx).Return([]model.YearStats{}, nil)
		repo.EXPECT().GenreBreakdown(ctx).Return([]model.GenreStats{}, nil)

		st, err := svc.GetStatistics(ctx)
		require.NoError(t, err)
		require.Zero(t, st.TotalBooks)
		require.Equal(t, service.NoBooksFound, st.MostExpensive)
		require.Equal(t, service.NoBooksFound, st.Cheapest)
		require.Empty(t, st.ByYear)
		require.Empty(t, st.ByGenre)
		require.True(t, st.AveragePrice.IsZero())
	})

	t.Run("populated catalog", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		priciest := model.Book{
			Title: "The Left Hand of Darkness",
			Price: decimal.RequireFromString("10.99"),
			Author: &model.Author{
				FirstName: "Ursula",
				LastName:  "Le Guin",
			},
		}
		cheapest := model.Book{
			Title: "Animal Farm",
			Price: decimal.RequireFromString("7.49"),
			Author: &model.Author{
				FirstName: "George",
				LastName:  "Orwell",
			},
		}
		repo.EXPECT().CountBooks(ctx).Return(int64(7), nil)
		repo.EXPECT().CountAuthors(ctx).Return(int64(4), nil)
		repo.EXPECT().CountGenres(ctx).Return(int64(3), nil)
		repo.EXPECT().CountAvailableBooks(ctx).Return(int64(5), nil)
		repo.EXPECT().AveragePrice(ctx).Return(decimal.RequireFromString("9.4757"), nil)
		repo.EXPECT().MostExpensiveBook(ctx).Return(priciest, nil)
		repo.EXPECT().CheapestBook(ctx).Return(cheapest, nil)
		repo.EXPECT().YearBreakdown(ctx).Return([]model.YearStats{
			{Year: 1969, Count: 1, AveragePrice: decimal.RequireFromString("10.99")},
			{Year: 1949, Count: 1, AveragePrice: decimal.RequireFromString("9.99")},
		}, nil)
		repo.EXPECT().GenreBreakdown(ctx).Return([]model.GenreStats{
			{Genre: "Science Fiction", Count: 3, AveragePrice: decimal.RequireFromString("9.32")},
			{Genre: "Dystopia", Count: 2, AveragePrice: decimal.RequireFromString("8.74")},
		}, nil)

		st, err := svc.GetStatistics(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 7, st.TotalBooks)
		require.EqualValues(t, 2, st.UnavailableBooks)
		require.Equal(t, "9.48", st.AveragePrice.StringFixed(2))
		require.Equal(t, `"The Left Hand of Darkness" by Ursula Le Guin ($10.99)`, st.MostExpensive)
		require.Equal(t, `"Animal Farm" by George Orwell ($7.49)`, st.Cheapest)
		require.Len(t, st.ByYear, 2)
		require.Len(t, st.ByGenre, 2)
	})

	t.Run("store fault propagates", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().CountBooks(ctx).Return(int64(0), errors.New("db down"))

		_, err := svc.GetStatistics(ctx)
		require.Error(t, err)
	})
}

func TestService_GetTotalCatalogValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repo := newTestService(t)
	repo.EXPECT().TotalCatalogValue(ctx).Return(decimal.Zero, nil)

	sum, err := svc.GetTotalCatalogValue(ctx)
	require.NoError(t, err)
	require.True(t, sum.IsZero())
}
