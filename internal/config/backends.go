package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sternrassler/pokeapi-client/pkg/cache"
	"github.com/Sternrassler/pokeapi-client/pkg/client"
	"github.com/mitchellh/go-homedir"
	"github.com/redis/go-redis/v9"
)

// DefaultSQLitePath is used when SQLitePath is empty.
const DefaultSQLitePath = "~/.cache/pokedex/responses.db"

// Backends holds the opened cache and cooldown backends.
type Backends struct {
	Redis *redis.Client
	Store cache.Store

	closers []func() error
}

// Close releases all backends.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// OpenBackends connects the configured cache backend. With CacheNone both
// fields stay nil.
func (c Config) OpenBackends(ctx context.Context) (*Backends, error) {
	b := &Backends{}

	switch c.CacheBackend {
	case CacheRedis:
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.Redis = rdb
		b.Store = cache.NewRedisStore(rdb)
		b.closers = append(b.closers, rdb.Close)

	case CacheSQLite:
		path, err := c.ResolveSQLitePath()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		store, err := cache.OpenSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		// Expired rows are never read again; drop them so the file stays bounded.
		if _, err := store.Purge(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("purge sqlite cache: %w", err)
		}
		b.Store = store
		b.closers = append(b.closers, store.Close)
	}

	return b, nil
}

// ResolveSQLitePath expands ~ in SQLitePath or DefaultSQLitePath.
func (c Config) ResolveSQLitePath() (string, error) {
	path := c.SQLitePath
	if path == "" {
		path = DefaultSQLitePath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand sqlite path: %w", err)
	}
	return expanded, nil
}

// ClientConfig builds the upstream client configuration.
func (c Config) ClientConfig(b *Backends) client.Config {
	cfg := client.DefaultConfig(c.UserAgent)
	cfg.BaseURL = c.BaseURL
	cfg.Timeout = c.HTTPTimeout
	cfg.MaxRetries = c.MaxRetries
	if b != nil {
		cfg.Cache = b.Store
		cfg.Redis = b.Redis
	}
	return cfg
}
