package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
	repo_mocks "github.com/ReemHassan742/bookcatalog/internal/repository/mocks"
	"github.com/ReemHassan742/bookcatalog/internal/service"
)

func newTestService(t *testing.T) (*service.Service, *repo_mocks.MockRepository) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	repo := repo_mocks.NewMockRepository(c)
	return service.NewService(repo, zap.NewExample().Named("test"), 5*time.Minute), repo
}

func validBook() model.Book {
	return model.Book{
		Title:           "1984",
		ISBN:            "978-0451524935",
		PublicationYear: 1949,
		Price:           decimal.RequireFromString("9.99"),
		IsAvailable:     true,
		AuthorID:        1,
	}
}

func TestService_ValidateBook(t *testing.T) {
	t.Parallel()
	maxYear := time.Now().Year() + 1

	var tests = []struct {
		name    string
		mutate  func(b *model.Book)
		wantMsg string
	}{
		{
			name:   "valid",
			mutate: func(b *model.Book) {},
		},
		{
			name:   "valid boundary years",
			mutate: func(b *model.Book) { b.PublicationYear = 1000 },
		},
		{
			name:   "valid next year",
			mutate: func(b *model.Book) { b.PublicationYear = maxYear },
		},
		{
			name:   "valid zero price",
			mutate: func(b *model.Book) { b.Price = decimal.Zero },
		},
		{
			name:    "empty title",
			mutate:  func(b *model.Book) { b.Title = "   " },
			wantMsg: "title is required",
		},
		{
			name:    "empty isbn",
			mutate:  func(b *model.Book) { b.ISBN = "" },
			wantMsg: "isbn is required",
		},
		{
			name:    "year too old",
			mutate:  func(b *model.Book) { b.PublicationYear = 999 },
			wantMsg: fmt.Sprintf("publication year must be between 1000 and %d", maxYear),
		},
		{
			name:    "year too far ahead",
			mutate:  func(b *model.Book) { b.PublicationYear = maxYear + 1 },
			wantMsg: fmt.Sprintf("publication year must be between 1000 and %d", maxYear),
		},
		{
			name:    "negative price",
			mutate:  func(b *model.Book) { b.Price = decimal.RequireFromString("-0.01") },
			wantMsg: "price must not be negative",
		},
		{
			name: "first violation wins",
			mutate: func(b *model.Book) {
				b.Title = ""
				b.ISBN = ""
				b.Price = decimal.RequireFromString("-1")
			},
			wantMsg: "title is required",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newTestService(t)

			b := validBook()
			tt.mutate(&b)
			err := svc.ValidateBook(b)

			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestService_IsISBNUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("taken", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			CountBooksByISBN(ctx, "978-0451524935", int64(0)).
			Return(int64(1), nil)

		unique, err := svc.IsISBNUnique(ctx, "978-0451524935", 0)
		require.NoError(t, err)
		require.False(t, unique)
	})

	t.Run("free again after delete", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			CountBooksByISBN(ctx, "978-0451524935", int64(0)).
			Return(int64(0), nil)

		unique, err := svc.IsISBNUnique(ctx, "978-0451524935", 0)
		require.NoError(t, err)
		require.True(t, unique)
	})

	t.Run("excludes own row on update", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			CountBooksByISBN(ctx, "978-0451524935", int64(7)).
			Return(int64(0), nil)

		unique, err := svc.IsISBNUnique(ctx, "978-0451524935", 7)
		require.NoError(t, err)
		require.True(t, unique)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			CountBooksByISBN(ctx, "x", int64(0)).
			Return(int64(0), errors.New("db down"))

		_, err := svc.IsISBNUnique(ctx, "x", 0)
		require.Error(t, err)
	})
}

func TestService_AddBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("invalid book never reaches the store", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		b := validBook()
		b.Title = ""
		_, err := svc.AddBook(ctx, b)
		require.True(t, errs.IsValidation(err))
	})

	t.Run("duplicate isbn rejected by pre-check", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		repo.EXPECT().
			CountBooksByISBN(ctx, "978-0451524935", int64(0)).
			Return(int64(1), nil)

		_, err := svc.AddBook(ctx, validBook())
		require.ErrorIs(t, err, errs.ErrDuplicateISBN)
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		b := validBook()
		repo.EXPECT().
			CountBooksByISBN(ctx, b.ISBN, int64(0)).
			Return(int64(0), nil)
		repo.EXPECT().
			CreateBook(ctx, b).
			Return(int64(42), nil)

		id, err := svc.AddBook(ctx, b)
		require.NoError(t, err)
		require.EqualValues(t, 42, id)
	})
}

func TestService_ImportBooks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("one bad row rejects the batch", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestService(t)

		bad := validBook()
		bad.ISBN = ""
		_, err := svc.ImportBooks(ctx, []model.Book{validBook(), bad})
		require.True(t, errs.IsValidation(err))
	})

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo := newTestService(t)
		books := []model.Book{validBook(), validBook()}
		repo.EXPECT().
			BulkInsertBooks(ctx, books).
			Return(int64(2), nil)

		n, err := svc.ImportBooks(ctx, books)
		require.NoError(t, err)
		require.EqualValues(t, 2, n)
	})
}
