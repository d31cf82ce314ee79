package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/platform/logger"
)

const redisKeyPrefix = "session:"

// RedisStore persists sessions in Redis with a server-side TTL, so they
// survive application restarts and are shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration, log *logger.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	log.Info("Connected to Redis session store", zap.String("addr", addr), zap.Duration("ttl", ttl))
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.Named("RedisSessionStore"),
	}, nil
}

// Get returns the session for token. Redis expiry makes stale tokens look
// missing.
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to read session from Redis", zap.Error(err))
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Error("Failed to decode session payload", zap.Error(err))
		return nil, fmt.Errorf("session decode failed: %w", err)
	}
	return &s, nil
}

// Save writes the session and refreshes its TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode failed: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.Token, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to write session to Redis", zap.Error(err))
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Destroy removes the session.
func (r *RedisStore) Destroy(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		r.logger.Error("Failed to delete session from Redis", zap.Error(err))
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
