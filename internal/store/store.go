// Package store adapts the remote hierarchical realtime database the game
// keeps its persistent state in. Paths are slash-separated; values are JSON
// documents or scalar strings. Two client versions are in use across game
// deployments, so the adapter is an explicit interface with one
// implementation per client, selected at construction time.
package store

import "context"

// ChangeFunc receives the current value at a subscribed path. present is
// false when the path was deleted or never existed.
type ChangeFunc func(value string, present bool)

// Store is the point-access surface the moderation core consumes.
type Store interface {
	// Read returns the value at path. The second return is false when the
	// path is absent.
	Read(ctx context.Context, path string) (string, bool, error)

	// ReadTree returns all descendants of path keyed by their subpath
	// relative to it. An empty map means the subtree is absent.
	ReadTree(ctx context.Context, path string) (map[string]string, error)

	// Write sets the value at path and notifies subscribers of that path.
	Write(ctx context.Context, path, value string) error

	// Delete removes path and its entire subtree, notifying subscribers of
	// path that the value is gone.
	Delete(ctx context.Context, path string) error

	// Subscribe watches path for changes, firing fn immediately with the
	// current value and again on every write or delete. It blocks until ctx
	// is canceled or the subscription fails.
	Subscribe(ctx context.Context, path string, fn ChangeFunc) error

	// Close releases the underlying client.
	Close()
}
