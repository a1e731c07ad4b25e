package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore holds issued refresh tokens until they are revoked or expire.
// Backends must be safe for concurrent use.
type TokenStore interface {
	Store(ctx context.Context, token string, ttl time.Duration) error
	Valid(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// RedisTokenStore keeps refresh tokens in Redis, keyed by token digest so the
// raw JWT never lands in the store.
type RedisTokenStore struct {
	redis *RedisClient
}

// NewRedisTokenStore creates a TokenStore backed by Redis.
func NewRedisTokenStore(redis *RedisClient) *RedisTokenStore {
	return &RedisTokenStore{redis: redis}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:refresh:" + hex.EncodeToString(sum[:])
}

// Store registers a refresh token for its remaining lifetime.
func (s *RedisTokenStore) Store(ctx context.Context, token string, ttl time.Duration) error {
	return s.redis.Set(ctx, tokenKey(token), "1", ttl)
}

// Valid reports whether the token is still registered.
func (s *RedisTokenStore) Valid(ctx context.Context, token string) (bool, error) {
	_, err := s.redis.Get(ctx, tokenKey(token))
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke removes the token; revoking an unknown token is not an error.
func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.redis.Delete(ctx, tokenKey(token))
}
