// Package cache memoizes expensive loads for a fixed time-to-live.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a key on a miss.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache is a bounded TTL cache keyed by string. Concurrent misses for the
// same key share one load, and failed loads are never stored.
type Cache[V any] struct {
	lru   *expirable.LRU[string, V]
	group singleflight.Group
	log   zerolog.Logger
}

// New creates a cache holding at most size entries for ttl each.
func New[V any](size int, ttl time.Duration, log zerolog.Logger) *Cache[V] {
	return &Cache[V]{
		lru: expirable.NewLRU[string, V](size, nil, ttl),
		log: log,
	}
}

// Get returns the cached value for key, calling load on a miss. The shared
// load runs detached from the caller's cancellation so one caller going away
// does not fail the others waiting on the same key; each caller still
// returns early when its own ctx is done.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		c.log.Debug().Str("key", key).Msg("cache hit")
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}
		v, err := load(loadCtx)
		if err != nil {
			return v, err
		}
		c.lru.Add(key, v)
		c.log.Debug().Str("key", key).Msg("cache fill")
		return v, nil
	})

	select {
	case res := <-ch:
		v, _ := res.Val.(V)
		return v, res.Err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}
