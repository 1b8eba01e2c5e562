package rating

import (
	"context"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// CachedStore wraps a Store with an in-memory read-through cache. A batch
// run reads the same handful of ratings many times (prediction, clone
// candidates, fusion weights); the cache keeps those reads off the database.
// SetRating writes through and refreshes the cached value.
type CachedStore struct {
	store Store
	cache *cache.Cache
}

// NewCachedStore creates a caching wrapper around the given store.
func NewCachedStore(store Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		store: store,
		cache: cache.New(ttl, ttl*2),
	}
}

// GetRating returns the cached rating or falls through to the store.
func (c *CachedStore) GetRating(ctx context.Context, teamID int64) (float64, error) {
	key := cacheKey(teamID)
	if v, found := c.cache.Get(key); found {
		if rating, ok := v.(float64); ok {
			return rating, nil
		}
	}

	rating, err := c.store.GetRating(ctx, teamID)
	if err != nil {
		return 0, err
	}
	c.cache.SetDefault(key, rating)
	return rating, nil
}

// SetRating writes through to the store and updates the cache.
func (c *CachedStore) SetRating(ctx context.Context, teamID int64, newRating float64) error {
	if err := c.store.SetRating(ctx, teamID, newRating); err != nil {
		return err
	}
	c.cache.SetDefault(cacheKey(teamID), newRating)
	return nil
}

// Put refreshes the cached value after a write that went through another
// path, such as a transactional pair update.
func (c *CachedStore) Put(teamID int64, newRating float64) {
	c.cache.SetDefault(cacheKey(teamID), newRating)
}

// Flush drops every cached rating. Used before a deterministic replay.
func (c *CachedStore) Flush() {
	c.cache.Flush()
}

func cacheKey(teamID int64) string {
	return strconv.FormatInt(teamID, 10)
}
