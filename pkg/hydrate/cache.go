package hydrate

import (
	"context"
	"sync"

	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"golang.org/x/sync/singleflight"
)

// DetailFunc resolves an index entry to its detail record.
type DetailFunc[T any] func(ctx context.Context, entry index.Entry) (T, error)

// Cache memoizes detail records by entry name. It is unbounded and
// append-only: a stored record is never replaced or evicted. Concurrent
// resolutions of the same uncached name share a single call to the DetailFunc.
//
// Failed fetches are not cached; a later request for the name tries again.
type Cache[T any] struct {
	mu      sync.RWMutex
	records map[string]T
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{records: make(map[string]T)}
}

// Get returns the cached record for name.
func (c *Cache[T]) Get(name string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[name]
	return rec, ok
}

// Len returns the number of cached records.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// put stores rec unless name is already present.
func (c *Cache[T]) put(name string, rec T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.records[name]; ok {
		return existing
	}
	c.records[name] = rec
	return rec
}

// Resolve returns the record for entry, calling fetch at most once per name
// across all concurrent callers. Joined callers observe the leader's result,
// including an error caused by the leader's context.
func (c *Cache[T]) Resolve(ctx context.Context, entry index.Entry, fetch DetailFunc[T]) (T, error) {
	if rec, ok := c.Get(entry.Name); ok {
		cacheHits.Inc()
		return rec, nil
	}

	leader := false
	v, err, shared := c.group.Do(entry.Name, func() (any, error) {
		leader = true
		// A fetch for this name may have completed between Get and Do.
		if rec, ok := c.Get(entry.Name); ok {
			cacheHits.Inc()
			return rec, nil
		}
		detailFetches.Inc()
		rec, err := fetch(ctx, entry)
		if err != nil {
			return nil, err
		}
		return c.put(entry.Name, rec), nil
	})
	if shared && !leader {
		inflightJoins.Inc()
	}

	var rec T
	if err != nil {
		return rec, err
	}
	rec, _ = v.(T)
	return rec, nil
}
