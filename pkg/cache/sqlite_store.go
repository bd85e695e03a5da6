package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists entries in a local SQLite file so a browsing session
// can reuse responses fetched by earlier ones.
type SQLiteStore struct {
	sql *sql.DB
}

// OpenSQLiteStore opens (and if needed creates) the cache database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS response_cache (
  cache_key   TEXT PRIMARY KEY,
  value       BLOB NOT NULL,
  expires_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_response_cache_expires ON response_cache(expires_at);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{sql: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Get implements Store. Rows past their expiry are treated as missing.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.sql.QueryRowContext(ctx,
		`SELECT value FROM response_cache WHERE cache_key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("sqlite get: %w", err)
	}
	return value, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.sql.ExecContext(ctx, `
INSERT INTO response_cache (cache_key, value, expires_at) VALUES (?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, time.Now().Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.sql.ExecContext(ctx, `DELETE FROM response_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// Purge removes expired rows and returns how many were deleted.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.sql.ExecContext(ctx, `DELETE FROM response_cache WHERE expires_at <= ?`, time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sqlite purge: %w", err)
	}
	return res.RowsAffected()
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.sql.PingContext(ctx)
}

// Name implements Store.
func (s *SQLiteStore) Name() string { return "sqlite" }
