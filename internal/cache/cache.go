// Package cache is a small in-process TTL cache for per-account read views
// (usage summaries, content listings). It is a best-effort layer: the
// orchestrator invalidates an account's entries after every successful
// repurpose, and expiry bounds staleness if an invalidation is ever missed.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache stores values under "<accountID>:<view>" keys.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// New creates a cache with the given entry TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Key builds the cache key for an account-scoped view.
func Key(accountID, view string) string {
	return accountID + ":" + view
}

// Get returns the cached value for key, or false when absent or expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key for the configured TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// InvalidateAccount drops every cached view for the account.
func (c *Cache) InvalidateAccount(accountID string) {
	prefix := accountID + ":"
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
