package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/cache"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory()
	defer c.Close()

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", "value")
	value, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", value)

	c.Set("key", "updated")
	value, _ = c.Get("key")
	assert.Equal(t, "updated", value)

	c.Remove("key")
	_, found = c.Get("key")
	assert.False(t, found)

	// Removing an absent key is a no-op
	c.Remove("key")
}

func TestSQLiteCache(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	logger := zap.NewNop()

	c, err := cache.NewSQLite(path, logger)
	require.NoError(t, err)

	c.Set(cache.BanKey, `{"reason":"test"}`)
	c.Set(cache.WarningsKey, "1")

	value, found := c.Get(cache.BanKey)
	assert.True(t, found)
	assert.Equal(t, `{"reason":"test"}`, value)

	c.Remove(cache.BanKey)
	_, found = c.Get(cache.BanKey)
	assert.False(t, found)

	c.Close()

	// Entries survive reopening
	c, err = cache.NewSQLite(path, logger)
	require.NoError(t, err)

	defer c.Close()

	value, found = c.Get(cache.WarningsKey)
	assert.True(t, found)
	assert.Equal(t, "1", value)
}
