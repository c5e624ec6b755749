package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/craftlink/marketplace-core/internal/core/ports"
)

// SnapshotStore stores whole serialized snapshots as Redis string values.
// Key format: snapshot:<name>. Values never expire: the latest write wins.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore wraps the given Redis client.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) key(name string) string {
	return "snapshot:" + name
}
