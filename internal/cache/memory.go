// Package cache provides fixture list caching in front of the fixture providers.
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/lp2m/internal/models"
)

// MemoryStore provides in-process caching for fixture lists
type MemoryStore struct {
	cache   *gocache.Cache
	ttl     time.Duration
	maxSize int
	mu      sync.Mutex
	stats   hitStats
}

// NewMemoryStore creates a new in-memory fixture store
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	return &MemoryStore{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached fixture list
func (s *MemoryStore) Get(ctx context.Context, key string) ([]models.Fixture, bool, error) {
	if result, found := s.cache.Get(key); found {
		if fixtures, ok := result.([]models.Fixture); ok {
			s.stats.record(true)
			return cloneFixtures(fixtures), true, nil
		}
	}

	s.stats.record(false)
	return nil, false, nil
}

// Set stores a fixture list
func (s *MemoryStore) Set(ctx context.Context, key string, fixtures []models.Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache.Get(key); !exists && s.cache.ItemCount() >= s.maxSize {
		// Remove expired items first
		s.cache.DeleteExpired()
		if s.cache.ItemCount() >= s.maxSize {
			s.evictOldest()
		}
	}

	s.cache.Set(key, cloneFixtures(fixtures), s.ttl)
	return nil
}

// evictOldest drops the entry closest to expiry. Callers hold s.mu.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldest int64
	for k, item := range s.cache.Items() {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey = k
			oldest = item.Expiration
		}
	}
	if oldestKey != "" {
		s.cache.Delete(oldestKey)
	}
}

// Clear flushes the entire cache
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Flush()
	s.stats.reset()
}

// Stats returns cache statistics
func (s *MemoryStore) Stats() (hits, misses uint64, ratio float64) {
	return s.stats.snapshot()
}

// ItemCount returns the number of items in cache
func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}

// Ping always succeeds for the in-process store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases nothing; it exists to satisfy Store.
func (s *MemoryStore) Close() error {
	return nil
}

func cloneFixtures(in []models.Fixture) []models.Fixture {
	out := make([]models.Fixture, len(in))
	copy(out, in)
	return out
}
