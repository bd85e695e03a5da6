package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"redis":  redisStore,
		"sqlite": newSQLiteStore(t),
	}
}

func TestNewManager_NilStore(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil store")
		}
	}()
	NewManager(nil)
}

func TestManager_SetAndGet(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store)
			if m.Backend() != name {
				t.Errorf("Backend() = %q, want %q", m.Backend(), name)
			}
			if err := m.Ping(ctx); err != nil {
				t.Fatalf("Ping() error = %v", err)
			}

			key := CacheKey{Endpoint: "/api/v2/pokemon/pikachu"}
			entry := &CacheEntry{
				Data:       []byte(`{"id":25}`),
				ETag:       `"etag-25"`,
				Expires:    time.Now().Add(time.Hour),
				StatusCode: 200,
				CachedAt:   time.Now(),
			}

			if err := m.Set(ctx, key, entry); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := m.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got.Data) != `{"id":25}` {
				t.Errorf("Data = %q", got.Data)
			}
			if got.ETag != `"etag-25"` {
				t.Errorf("ETag = %q", got.ETag)
			}
			if got.IsExpired() {
				t.Error("fresh entry reported expired")
			}
		})
	}
}

func TestManager_Miss(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store)
			_, err := m.Get(ctx, CacheKey{Endpoint: "/api/v2/pokemon/missingno"})
			if !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Get() error = %v, want ErrCacheMiss", err)
			}
		})
	}
}

func TestManager_ExpiredEntryKeptForRevalidation(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store)
			key := CacheKey{Endpoint: "/api/v2/ability/static"}
			entry := &CacheEntry{
				Data:    []byte(`{}`),
				ETag:    `"v1"`,
				Expires: time.Now().Add(-time.Minute),
			}
			if err := m.Set(ctx, key, entry); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := m.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !got.IsExpired() {
				t.Error("entry should be expired")
			}
			if !ShouldMakeConditionalRequest(got) {
				t.Error("expired entry should be revalidated")
			}

			newExpires := time.Now().Add(time.Hour)
			if err := m.UpdateTTL(ctx, key, newExpires); err != nil {
				t.Fatalf("UpdateTTL() error = %v", err)
			}
			got, err = m.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() after UpdateTTL error = %v", err)
			}
			if got.IsExpired() {
				t.Error("entry still expired after UpdateTTL")
			}
		})
	}
}

func TestManager_NoRetention(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	m := NewManager(store)
	m.SetRetention(0)

	key := CacheKey{Endpoint: "/api/v2/item/potion"}
	if err := m.Set(ctx, key, &CacheEntry{Expires: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := m.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry without retention should not be stored, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store)
			key := CacheKey{Endpoint: "/api/v2/move/tackle"}
			if err := m.Set(ctx, key, &CacheEntry{Expires: time.Now().Add(time.Hour)}); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := m.Delete(ctx, key); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := m.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Get() after Delete error = %v, want ErrCacheMiss", err)
			}
			if err := m.Delete(ctx, key); err != nil {
				t.Errorf("Delete() of missing key error = %v", err)
			}
		})
	}
}

func TestManager_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	m := NewManager(store)

	key := CacheKey{Endpoint: "/api/v2/type/fire"}
	if err := mr.Set(key.String(), "not json"); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Get(ctx, key); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Get() error = %v, want ErrInvalidEntry", err)
	}
	if mr.Exists(key.String()) {
		t.Error("corrupt entry should be removed")
	}
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	if err := store.Set(ctx, "pokeapi:k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "pokeapi:k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestSQLiteStore_Purge(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	if err := store.Set(ctx, "live", []byte("1"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "dying", []byte("2"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := store.Get(ctx, "dying"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired row Get() error = %v, want ErrCacheMiss", err)
	}

	n, err := store.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if _, err := store.Get(ctx, "live"); err != nil {
		t.Errorf("live row Get() error = %v", err)
	}
}

func TestSQLiteStore_Persistent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	first, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, "pokeapi:api/v2/pokemon/mew", []byte("mew"), time.Hour); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "pokeapi:api/v2/pokemon/mew")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "mew" {
		t.Errorf("Get() = %q", got)
	}
}
