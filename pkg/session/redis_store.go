package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sess"

// RedisStore implements Store backed by Redis. Session values live in a hash
// per session id; idle expiry rides the hash's own TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return redisKeyPrefix + ":" + sessionID
}

// Get reads a value from the session
func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.client.HGet(ctx, s.key(sessionID), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read session value: %w", err)
	}
	return value, nil
}

// Set writes a value and refreshes the session's idle expiry
func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.HSet(ctx, s.key(sessionID), key, value).Err(); err != nil {
		return fmt.Errorf("failed to write session value: %w", err)
	}
	if err := s.client.Expire(ctx, s.key(sessionID), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh session expiry: %w", err)
	}
	return nil
}

// Delete removes a value; missing keys are not an error
func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, s.key(sessionID), key).Err(); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}
