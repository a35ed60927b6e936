package storage

import (
	"context" // Request-scoped Redis calls
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"github.com/redis/go-redis/v9" // Redis client
)

// RedisStore keeps values in Redis without a TTL
type RedisStore struct {
	client *redis.Client // Redis client instance
}

// NewRedisStore wraps an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a value from Redis
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	val, err := r.client.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return "", false, nil // Key does not exist
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

// Set stores a value in Redis with no expiry
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	// Zero expiration keeps the key until it is deleted
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete deletes a key from Redis
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := r.client.Del(ctx, key).Err(); err != nil { // Missing keys count as deleted
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
