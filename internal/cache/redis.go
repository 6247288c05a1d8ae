package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/models"
)

// RedisStore keeps fixture lists in Redis as JSON so several instances share them
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	stats  hitStats
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), ttl)
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get retrieves a cached fixture list
func (s *RedisStore) Get(ctx context.Context, key string) ([]models.Fixture, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.stats.record(false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}

	var fixtures []models.Fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, false, fmt.Errorf("unmarshaling %s: %w", key, err)
	}

	s.stats.record(true)
	return fixtures, true, nil
}

// Set stores a fixture list with the configured TTL
func (s *RedisStore) Set(ctx context.Context, key string, fixtures []models.Fixture) error {
	if fixtures == nil {
		fixtures = []models.Fixture{}
	}
	data, err := json.Marshal(fixtures)
	if err != nil {
		return fmt.Errorf("marshaling fixtures: %w", err)
	}

	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Stats returns cache statistics
func (s *RedisStore) Stats() (hits, misses uint64, ratio float64) {
	return s.stats.snapshot()
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
