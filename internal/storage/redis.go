package storage

import (
	"context"
	"errors"
	"fmt"

	"bloodlink/internal/cache"

	"github.com/redis/go-redis/v9"
)

// RedisStore 將每個集合存為一個 Redis string，鍵名加上 prefix
type RedisStore struct {
	c      cache.Cache
	prefix string
}

func NewRedisStore(c cache.Cache, prefix string) *RedisStore {
	return &RedisStore{c: c, prefix: prefix}
}

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.c.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("RedisStore.Get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.c.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("RedisStore.Set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.c.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("RedisStore.Delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.c.Close()
}
