package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/metrics"
	"github.com/yourusername/lp2m/internal/models"
)

// Store caches fixture lists by key
type Store interface {
	// Get returns the cached list and whether it was found
	Get(ctx context.Context, key string) ([]models.Fixture, bool, error)
	Set(ctx context.Context, key string, fixtures []models.Fixture) error
	Ping(ctx context.Context) error
	Close() error
}

// Key builds the cache key for a provider's league.
func Key(provider string, leagueID int) string {
	return "fixtures:" + provider + ":" + strconv.Itoa(leagueID)
}

// NewStore creates the store selected by the cache configuration
func NewStore(cfg config.CacheConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second

	switch cfg.Backend {
	case config.CacheBackendMemory:
		return NewMemoryStore(ttl, cfg.MaxSize), nil
	case config.CacheBackendRedis:
		return NewRedisStore(cfg.Redis, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

// hitStats tracks lookups and publishes the hit ratio gauge
type hitStats struct {
	mu     sync.Mutex
	hits   uint64
	misses uint64
}

func (h *hitStats) record(hit bool) {
	h.mu.Lock()
	if hit {
		h.hits++
	} else {
		h.misses++
	}
	ratio := float64(h.hits) / float64(h.hits+h.misses)
	h.mu.Unlock()

	metrics.UpdateCacheHitRatio(ratio)
}

func (h *hitStats) snapshot() (hits, misses uint64, ratio float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	hits = h.hits
	misses = h.misses
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (h *hitStats) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits = 0
	h.misses = 0
}
