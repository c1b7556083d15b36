package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// snapshotCache holds at most one snapshot of the full catalog and the
// moment it was captured. A snapshot younger than the TTL is returned
// verbatim; otherwise one refresh runs and concurrent callers share its
// result through singleflight, so partially-written snapshots can never
// be observed. Time is the only invalidator.
type snapshotCache struct {
	ttl time.Duration
	sf  singleflight.Group
	now func() time.Time

	mu        sync.Mutex
	books     []model.Book
	fetchedAt time.Time
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		ttl: ttl,
		now: time.Now,
	}
}

func (c *snapshotCache) get(ctx context.Context, load func(ctx context.Context) ([]model.Book, error)) ([]model.Book, error) {
	if books, ok := c.fresh(); ok {
		return books, nil
	}

	v, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		// Another caller may have refreshed while this one waited.
		if books, ok := c.fresh(); ok {
			return books, nil
		}
		books, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.books = books
		c.fetchedAt = c.now()
		c.mu.Unlock()
		return books, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Book), nil
}

func (c *snapshotCache) fresh() ([]model.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.books == nil || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.books, true
}
