package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// RueidisStore implements Store on the rueidis client, the current store
// client version. Writes publish the new value on a channel named after the
// path, which is what Subscribe listens on; deletes publish an empty payload.
// Empty strings are therefore not valid stored values.
type RueidisStore struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewRueidis wraps an existing rueidis client in the store adapter.
func NewRueidis(client rueidis.Client, logger *zap.Logger) *RueidisStore {
	return &RueidisStore{
		client: client,
		logger: logger.Named("store_rueidis"),
	}
}

// Read returns the value at path.
func (s *RueidisStore) Read(ctx context.Context, path string) (string, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(path).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return value, true, nil
}

// ReadTree returns all descendants of path keyed by subpath.
func (s *RueidisStore) ReadTree(ctx context.Context, path string) (map[string]string, error) {
	keys, err := s.scanSubtree(ctx, path)
	if err != nil {
		return nil, err
	}

	tree := make(map[string]string, len(keys))

	for _, key := range keys {
		if key == path {
			continue
		}

		value, present, err := s.Read(ctx, key)
		if err != nil {
			return nil, err
		}

		// A concurrent delete between SCAN and GET just drops the entry
		if present {
			tree[key[len(path)+1:]] = value
		}
	}

	return tree, nil
}

// Write sets the value at path and notifies subscribers.
func (s *RueidisStore) Write(ctx context.Context, path, value string) error {
	err := s.client.Do(ctx, s.client.B().Set().Key(path).Value(value).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.publish(ctx, path, value)

	return nil
}

// Delete removes path and its subtree and notifies subscribers of path.
func (s *RueidisStore) Delete(ctx context.Context, path string) error {
	keys, err := s.scanSubtree(ctx, path)
	if err != nil {
		return err
	}

	keys = append(keys, path)

	err = s.client.Do(ctx, s.client.B().Del().Key(keys...).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	s.publish(ctx, path, "")

	return nil
}

// Subscribe watches path, firing fn with the current value first. Blocks
// until ctx is canceled or the connection drops.
func (s *RueidisStore) Subscribe(ctx context.Context, path string, fn ChangeFunc) error {
	value, present, err := s.Read(ctx, path)
	if err != nil {
		return err
	}

	fn(value, present)

	err = s.client.Receive(ctx, s.client.B().Subscribe().Channel(path).Build(), func(msg rueidis.PubSubMessage) {
		fn(msg.Message, msg.Message != "")
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("subscription to %s ended: %w", path, err)
	}

	return nil
}

// Close releases the underlying client.
func (s *RueidisStore) Close() {
	s.client.Close()
}

// scanSubtree collects the keys strictly below path.
func (s *RueidisStore) scanSubtree(ctx context.Context, path string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)

	for {
		entry, err := s.client.Do(ctx,
			s.client.B().Scan().Cursor(cursor).Match(path+"/*").Count(100).Build(),
		).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}

		keys = append(keys, entry.Elements...)

		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

func (s *RueidisStore) publish(ctx context.Context, path, payload string) {
	err := s.client.Do(ctx, s.client.B().Publish().Channel(path).Message(payload).Build()).Error()
	if err != nil {
		s.logger.Warn("Failed to publish change notification",
			zap.String("path", path),
			zap.Error(err))
	}
}
