package cache

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLiteCache persists cache entries in a single-table SQLite database so
// enforcement survives restarts on the same device.
type SQLiteCache struct {
	conn   *sqlite.Conn
	logger *zap.Logger
	mu     sync.Mutex // sqlite.Conn is not safe for concurrent use
}

// NewSQLite opens (or creates) the cache database at path.
func NewSQLite(path string, logger *zap.Logger) (*SQLiteCache, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = sqlitex.Execute(conn, `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &SQLiteCache{
		conn:   conn,
		logger: logger.Named("cache"),
	}, nil
}

// Get returns the value for key, or false when absent or unreadable.
func (c *SQLiteCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		value string
		found bool
	)

	err := sqlitex.Execute(c.conn, `SELECT value FROM kv WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			found = true

			return nil
		},
	})
	if err != nil {
		c.logger.Warn("Failed to read cache entry", zap.String("key", key), zap.Error(err))
		return "", false
	}

	return value, found
}

// Set stores value under key, overwriting any previous value.
func (c *SQLiteCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := sqlitex.Execute(c.conn,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		c.logger.Warn("Failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes key.
func (c *SQLiteCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := sqlitex.Execute(c.conn, `DELETE FROM kv WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
	})
	if err != nil {
		c.logger.Warn("Failed to remove cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the database connection.
func (c *SQLiteCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		c.logger.Warn("Failed to close cache database", zap.Error(err))
	}
}
