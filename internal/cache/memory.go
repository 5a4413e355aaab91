package cache

import "sync"

// MemoryCache keeps cache entries in process memory. Used in tests and in
// environments without a writable disk; enforcement then does not survive a
// restart, which matches having no cache at all.
type MemoryCache struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]string),
	}
}

// Get returns the value for key, or false when absent.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, found := c.entries[key]

	return value, found
}

// Set stores value under key.
func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// Remove deletes key.
func (c *MemoryCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Close is a no-op for the in-memory cache.
func (c *MemoryCache) Close() {}
