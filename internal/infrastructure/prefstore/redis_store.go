package prefstore

import (
	"context"
	"errors"
	"fmt"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences as plain redis strings under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ port.PreferenceStore = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. prefix namespaces every key.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", entity.ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return val, nil
}

// Set stores value without expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}
