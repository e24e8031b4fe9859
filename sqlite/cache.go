package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mwalczyk/backstage"
)

// Ensure Cache implements backstage.Cache at compile time.
var _ backstage.Cache = (*Cache)(nil)

// Cache is a durable key-value store backed by SQLite. Writes overwrite
// whole values; there is no locking protocol for concurrent writers
// beyond SQLite's own, so the last writer wins.
type Cache struct {
	db *DB
}

// NewCache creates a Cache over an open DB.
func NewCache(db *DB) *Cache {
	return &Cache{db: db}
}

// Get returns the value stored under key.
// Returns ENOTFOUND if the key is absent.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", backstage.Errorf(backstage.ENOTFOUND, "cache key %q not found", key)
	} else if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Remove deletes the key. Removing an absent key is not an error.
func (c *Cache) Remove(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
