package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// GoRedisStore implements Store on the go-redis client, the previous store
// client version still deployed alongside rueidis. Wire behavior matches
// RueidisStore: writes publish the new value on the path channel, deletes
// publish an empty payload.
type GoRedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewGoRedis wraps an existing go-redis client in the store adapter.
func NewGoRedis(client *redis.Client, logger *zap.Logger) *GoRedisStore {
	return &GoRedisStore{
		client: client,
		logger: logger.Named("store_goredis"),
	}
}

// Read returns the value at path.
func (s *GoRedisStore) Read(ctx context.Context, path string) (string, bool, error) {
	value, err := s.client.Get(ctx, path).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return value, true, nil
}

// ReadTree returns all descendants of path keyed by subpath.
func (s *GoRedisStore) ReadTree(ctx context.Context, path string) (map[string]string, error) {
	keys, err := s.scanSubtree(ctx, path)
	if err != nil {
		return nil, err
	}

	tree := make(map[string]string, len(keys))

	for _, key := range keys {
		if key == path {
			continue
		}

		value, err := s.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}

			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}

		tree[key[len(path)+1:]] = value
	}

	return tree, nil
}

// Write sets the value at path and notifies subscribers.
func (s *GoRedisStore) Write(ctx context.Context, path, value string) error {
	if err := s.client.Set(ctx, path, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.publish(ctx, path, value)

	return nil
}

// Delete removes path and its subtree and notifies subscribers of path.
func (s *GoRedisStore) Delete(ctx context.Context, path string) error {
	keys, err := s.scanSubtree(ctx, path)
	if err != nil {
		return err
	}

	keys = append(keys, path)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	s.publish(ctx, path, "")

	return nil
}

// Subscribe watches path, firing fn with the current value first. Blocks
// until ctx is canceled or the subscription fails.
func (s *GoRedisStore) Subscribe(ctx context.Context, path string, fn ChangeFunc) error {
	value, present, err := s.Read(ctx, path)
	if err != nil {
		return err
	}

	fn(value, present)

	pubsub := s.client.Subscribe(ctx, path)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", path)
			}

			fn(msg.Payload, msg.Payload != "")
		}
	}
}

// Close releases the underlying client.
func (s *GoRedisStore) Close() {
	if err := s.client.Close(); err != nil {
		s.logger.Warn("Failed to close client", zap.Error(err))
	}
}

// scanSubtree collects the keys strictly below path.
func (s *GoRedisStore) scanSubtree(ctx context.Context, path string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, path+"/*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	return keys, nil
}

func (s *GoRedisStore) publish(ctx context.Context, path, payload string) {
	if err := s.client.Publish(ctx, path, payload).Err(); err != nil {
		s.logger.Warn("Failed to publish change notification",
			zap.String("path", path),
			zap.Error(err))
	}
}
