// Package cache provides the local persistent key-value cache the moderation
// core falls back to when the remote store is unreachable. The cache is a
// mirror of the remote store, never authoritative, and safe to overwrite
// unconditionally on every authoritative read.
package cache

// Keys carried over from earlier game clients; other tooling may still read
// them, so they are part of the on-disk format.
const (
	// BanKey holds the serialized active ban record.
	BanKey = "eljasus_ban"
	// WarningsKey holds the warning counter as a decimal string.
	WarningsKey = "eljasus_warnings"
)

// Cache is the collaborator surface the core consumes. Implementations never
// fail outward: malformed or unreadable state is treated as absent and
// logged internally.
type Cache interface {
	// Get returns the value for key, or false when absent.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)

	// Close releases any underlying resources.
	Close()
}
