package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ReemHassan742/bookcatalog/internal/model"
)

func TestSnapshotCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fresh snapshot is returned verbatim", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		c := newSnapshotCache(5 * time.Minute)
		c.now = func() time.Time { return now }

		loads := 0
		load := func(context.Context) ([]model.Book, error) {
			loads++
			return []model.Book{{ID: int64(loads)}}, nil
		}

		first, err := c.get(ctx, load)
		require.NoError(t, err)
		require.Equal(t, 1, loads)

		// The store "changes", but the snapshot is younger than the TTL.
		now = now.Add(4 * time.Minute)
		second, err := c.get(ctx, load)
		require.NoError(t, err)
		require.Equal(t, 1, loads)
		require.Same(t, &first[0], &second[0])
	})

	t.Run("expired snapshot is refreshed", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		c := newSnapshotCache(5 * time.Minute)
		c.now = func() time.Time { return now }

		loads := 0
		load := func(context.Context) ([]model.Book, error) {
			loads++
			return []model.Book{{ID: int64(loads)}}, nil
		}

		_, err := c.get(ctx, load)
		require.NoError(t, err)

		now = now.Add(5 * time.Minute)
		books, err := c.get(ctx, load)
		require.NoError(t, err)
		require.Equal(t, 2, loads)
		require.EqualValues(t, 2, books[0].ID)
	})

	t.Run("failed refresh leaves no snapshot behind", func(t *testing.T) {
		t.Parallel()
		c := newSnapshotCache(5 * time.Minute)

		calls := 0
		_, err := c.get(ctx, func(context.Context) ([]model.Book, error) {
			calls++
			return nil, errors.New("db down")
		})
		require.Error(t, err)

		books, err := c.get(ctx, func(context.Context) ([]model.Book, error) {
			calls++
			return []model.Book{{ID: 1}}, nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
		require.Len(t, books, 1)
	})

	t.Run("empty catalog snapshot still counts as fresh", func(t *testing.T) {
		t.Parallel()
		c := newSnapshotCache(5 * time.Minute)

		loads := 0
		load := func(context.Context) ([]model.Book, error) {
			loads++
			return []model.Book{}, nil
		}

		_, err := c.get(ctx, load)
		require.NoError(t, err)
		_, err = c.get(ctx, load)
		require.NoError(t, err)
		require.Equal(t, 1, loads)
	})
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		total, size, want int64
	}{
		{0, 2, 0},
		{1, 2, 1},
		{4, 2, 2},
		{5, 2, 3},
		{5, 5, 1},
		{5, 10, 1},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, totalPages(tt.total, tt.size),
			"totalPages(%d, %d)", tt.total, tt.size)
	}
}
