package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a KV backed by Redis string keys.
// Keys are namespaced with a prefix so several games can share one database.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		timeout: 2 * time.Second,
	}
}

// OpenRedis connects to a Redis server and verifies the connection.
func OpenRedis(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis at %s: %w", addr, err)
	}

	return NewRedisStore(client, "wordguess:"), nil
}

func (r *RedisStore) Get(key string) ([]byte, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisStore) Set(key string, value []byte) error {
	ctx, cancel := r.ctx()
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Remove(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("storage: cannot remove %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

var (
	_ KV = (*RedisStore)(nil)
	_ KV = (*SQLiteStore)(nil)
	_ KV = (*MemoryStore)(nil)
)
