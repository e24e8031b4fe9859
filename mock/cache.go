// Package mock provides function-field mock implementations of the
// backstage interfaces for use in tests.
package mock

import (
	"context"

	"github.com/mwalczyk/backstage"
)

// Compile-time interface verification.
var (
	_ backstage.Cache = (*Cache)(nil)
	_ backstage.Cache = (*MemoryCache)(nil)
)

// Cache is a mock implementation of backstage.Cache.
type Cache struct {
	GetFn    func(ctx context.Context, key string) (string, error)
	SetFn    func(ctx context.Context, key, value string) error
	RemoveFn func(ctx context.Context, key string) error
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.GetFn(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	return c.SetFn(ctx, key, value)
}

func (c *Cache) Remove(ctx context.Context, key string) error {
	return c.RemoveFn(ctx, key)
}

// MemoryCache is an in-memory backstage.Cache for tests that need real
// read-back semantics rather than per-call hooks.
type MemoryCache struct {
	Values map[string]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{Values: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.Values[key]
	if !ok {
		return "", backstage.Errorf(backstage.ENOTFOUND, "cache key %q not found", key)
	}
	return v, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.Values[key] = value
	return nil
}

func (c *MemoryCache) Remove(_ context.Context, key string) error {
	delete(c.Values, key)
	return nil
}
