// Package cache persists provider responses in SQLite so that re-scraping
// the same identifier (retries, reorganized libraries) does not hit the
// sites again within the TTL window.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// DefaultTTL is how long a cached provider response stays valid (30 days).
const DefaultTTL = 720 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS provider_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_provider_cached_at ON provider_cache(cached_at);
`

// FetchFunc fetches a value from the external source on cache miss.
type FetchFunc[T any] func() (T, error)

// DB manages the SQLite connection backing the response cache.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	global     *DB
	globalOnce sync.Once
)

// ResetGlobal closes the current global cache and resets the singleton so
// the next Global call creates a new instance. Test use only.
func ResetGlobal() error {
	if global != nil {
		if err := global.Close(); err != nil {
			return err
		}
	}
	global = nil
	globalOnce = sync.Once{}
	return nil
}

// Global returns the singleton cache, opening it from the configured
// path on first use.
func Global() (*DB, error) {
	var initErr error
	globalOnce.Do(func() {
		path := viper.GetString("cache.dbfile")
		if path == "" {
			path = "./cache.db"
		}
		global, initErr = Open(path)
	})
	if initErr != nil {
		return nil, initErr
	}
	return global, nil
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	if _, err := db.Exec(schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
	}

	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Key builds the cache key for one provider/identifier pair.
func Key(provider, identifier string) string {
	return provider + "|" + identifier
}

// Get retrieves a cached value. Returns the data, whether a fresh entry
// was found, and any error.
func (c *DB) Get(key string, ttl time.Duration) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(
		`SELECT data, cached_at FROM provider_cache WHERE cache_key = ?`, key,
	).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	age := time.Now().UTC().Sub(cachedAt)
	if age > ttl {
		slog.Debug("Cache expired", "key", key, "age", age)
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a value under key, replacing any previous entry.
func (c *DB) Set(key, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO provider_cache (cache_key, data, cached_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)`, key, data)
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Clear removes every cached response. Returns the number of rows deleted.
func (c *DB) Clear() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(`DELETE FROM provider_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	slog.Debug("Cache cleared", "rows_deleted", rows)
	return rows, nil
}

// ClearExpired removes entries older than the TTL.
func (c *DB) ClearExpired(ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)
	result, err := c.db.Exec(`DELETE FROM provider_cache WHERE cached_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clear expired cache: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		slog.Info("Cleared expired cache entries", "count", rows)
	}
	return nil
}

// GetOrFetch retrieves a value from the cache, falling back to fetchFunc
// on a miss and storing the fetched value. Cache failures degrade to a
// direct fetch; they never fail the scrape.
func GetOrFetch[T any](key string, fetchFunc FetchFunc[T]) (T, bool, error) {
	return GetOrFetchWithPolicy(key, fetchFunc, nil)
}

// GetOrFetchWithPolicy is GetOrFetch with control over whether a fetched
// value is stored. A nil shouldCache stores everything; the provider
// layer uses it to keep failed lookups out of the cache so they are
// retried next run.
func GetOrFetchWithPolicy[T any](key string, fetchFunc FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	var zero T

	c, err := Global()
	if err != nil {
		slog.Warn("Failed to initialize cache, fetching directly", "error", err)
		data, fetchErr := fetchFunc()
		return data, false, fetchErr
	}

	ttl := configuredTTL()

	cached, fromCache, err := c.Get(key, ttl)
	if err == nil && fromCache {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "key", key)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, will refetch", "key", key, "error", err)
	}

	slog.Debug("Cache miss, fetching data", "key", key)
	data, err := fetchFunc()
	if err != nil {
		return zero, false, err
	}

	if shouldCache != nil && !shouldCache(data) {
		slog.Debug("Skipping cache store per policy", "key", key)
		return data, false, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "key", key, "error", err)
		return data, false, nil
	}
	if err := c.Set(key, string(jsonData)); err != nil {
		slog.Warn("Failed to cache data", "key", key, "error", err)
	}
	return data, false, nil
}

func configuredTTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return DefaultTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		return DefaultTTL
	}
	return ttl
}
