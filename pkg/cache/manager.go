package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultRetention is how long an expired entry is kept for revalidation.
const DefaultRetention = 24 * time.Hour

// Manager stores CacheEntry values in a Store.
//
// Entries outlive their Expires time by the retention window so the client
// can revalidate them with a conditional request instead of a full fetch.
type Manager struct {
	store     Store
	retention time.Duration
}

// NewManager creates a cache manager on top of store.
func NewManager(store Store) *Manager {
	if store == nil {
		panic("cache store cannot be nil")
	}
	return &Manager{
		store:     store,
		retention: DefaultRetention,
	}
}

// SetRetention changes the revalidation window for entries stored afterwards.
func (m *Manager) SetRetention(d time.Duration) {
	if d < 0 {
		d = 0
	}
	m.retention = d
}

// Backend returns the underlying store name.
func (m *Manager) Backend() string {
	return m.store.Name()
}

// Ping checks the underlying store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// Get retrieves a cache entry by key. Expired entries are returned as well;
// callers check IsExpired and revalidate. Returns ErrCacheMiss when absent.
func (m *Manager) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	layer := m.store.Name()

	data, err := m.store.Get(ctx, key.String())
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, err
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		_ = m.store.Delete(ctx, key.String())
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		CacheStale.WithLabelValues(layer).Inc()
	} else {
		CacheHits.WithLabelValues(layer).Inc()
	}
	return &entry, nil
}

// Set stores a cache entry for its TTL plus the retention window.
func (m *Manager) Set(ctx context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	keep := entry.TTL() + m.retention
	if keep <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.store.Set(ctx, key.String(), data, keep); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}

	CacheWrites.WithLabelValues(m.store.Name()).Inc()
	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key CacheKey) error {
	if err := m.store.Delete(ctx, key.String()); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return err
	}
	return nil
}

// UpdateTTL moves the expiry of an existing entry, typically after a
// 304 Not Modified response.
func (m *Manager) UpdateTTL(ctx context.Context, key CacheKey, newExpires time.Time) error {
	entry, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	entry.Expires = newExpires
	return m.Set(ctx, key, entry)
}
