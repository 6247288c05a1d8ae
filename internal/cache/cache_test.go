package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/models"
)

type stubProvider struct {
	mu       sync.Mutex
	calls    []string
	fixtures []models.Fixture
	err      error
}

func (p *stubProvider) UpcomingFixtures(ctx context.Context, league string) ([]models.Fixture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, league)
	if p.err != nil {
		return nil, p.err
	}
	return p.fixtures, nil
}

func (p *stubProvider) ResolveLeague(league string) (int, error) {
	return models.TheSportsDBLeagueIDs().Resolve(league)
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Ping(ctx context.Context) error { return p.err }

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) ([]models.Fixture, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenStore) Set(ctx context.Context, key string, fixtures []models.Fixture) error {
	return errors.New("connection refused")
}

func (brokenStore) Ping(ctx context.Context) error { return errors.New("connection refused") }

func (brokenStore) Close() error { return nil }

func testLogger() *logger.ProviderLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logger.NewProviderLogger(log)
}

func sampleFixtures() []models.Fixture {
	return []models.Fixture{
		{ID: "1", Date: "2026-10-24", Home: "Paris SG", Away: "Lens", Raw: []byte(`{"idEvent":"1"}`)},
		{ID: "2", Date: "2026-10-25", Home: "Lyon", Away: "Nice"},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "fixtures:thesportsdb:4334", Key("thesportsdb", 4334))
}

func TestMemoryStoreGetSet(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	defer store.Clear()
	ctx := context.Background()

	got, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	require.NoError(t, store.Set(ctx, "k", sampleFixtures()))
	got, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sampleFixtures(), got)

	got[0].Home = "mutated"
	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "Paris SG", again[0].Home, "callers must not alias cached entries")

	hits, misses, ratio := store.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 2.0/3.0, ratio, 1e-9)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(20*time.Millisecond, 10)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", sampleFixtures()))
	time.Sleep(50 * time.Millisecond)

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreMaxSize(t *testing.T) {
	store := NewMemoryStore(time.Hour, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), sampleFixtures()))
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 3, store.ItemCount())

	_, found, _ := store.Get(ctx, "k4")
	assert.True(t, found, "newest entry is kept")
	_, found, _ = store.Get(ctx, "k0")
	assert.False(t, found, "oldest entry is evicted")

	// Overwriting an existing key never evicts.
	require.NoError(t, store.Set(ctx, "k4", nil))
	assert.Equal(t, 3, store.ItemCount())
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", sampleFixtures()))
	_, _, _ = store.Get(ctx, "k")
	store.Clear()

	assert.Equal(t, 0, store.ItemCount())
	hits, misses, _ := store.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(config.CacheConfig{Backend: config.CacheBackendMemory, TTLSeconds: 60, MaxSize: 10})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewStore(config.CacheConfig{
		Backend: config.CacheBackendRedis, TTLSeconds: 60, MaxSize: 10,
		Redis: config.RedisConfig{Addr: "127.0.0.1:6379"},
	})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	assert.NoError(t, store.Close())

	_, err = NewStore(config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}

func TestCachedProviderServesFromCache(t *testing.T) {
	provider := &stubProvider{fixtures: sampleFixtures()}
	cached := NewCachedProvider(provider, NewMemoryStore(time.Hour, 10), testLogger())
	ctx := context.Background()

	first, err := cached.UpcomingFixtures(ctx, "ligue1")
	require.NoError(t, err)
	second, err := cached.UpcomingFixtures(ctx, "4334")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.callCount(), "key and id share a cache entry")
	assert.Equal(t, []string{"4334"}, provider.calls)
	assert.Equal(t, "stub", cached.Name())
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream down")}
	store := NewMemoryStore(time.Hour, 10)
	cached := NewCachedProvider(provider, store, testLogger())
	ctx := context.Background()

	_, err := cached.UpcomingFixtures(ctx, "ucl")
	assert.Error(t, err)
	assert.Equal(t, 0, store.ItemCount())

	_, err = cached.UpcomingFixtures(ctx, "ucl")
	assert.Error(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestCachedProviderLeagueErrors(t *testing.T) {
	provider := &stubProvider{fixtures: sampleFixtures()}
	cached := NewCachedProvider(provider, NewMemoryStore(time.Hour, 10), testLogger())

	_, err := cached.UpcomingFixtures(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrLeagueRequired)

	_, err = cached.Refresh(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrUnknownLeague)
	assert.Zero(t, provider.callCount())
}

func TestCachedProviderBypassesBrokenStore(t *testing.T) {
	provider := &stubProvider{fixtures: sampleFixtures()}
	cached := NewCachedProvider(provider, brokenStore{}, testLogger())

	fixtures, err := cached.UpcomingFixtures(context.Background(), "premier")
	require.NoError(t, err)
	assert.Len(t, fixtures, 2)
}

func TestCachedProviderRefresh(t *testing.T) {
	provider := &stubProvider{fixtures: sampleFixtures()}
	store := NewMemoryStore(time.Hour, 10)
	cached := NewCachedProvider(provider, store, testLogger())
	ctx := context.Background()

	_, err := cached.UpcomingFixtures(ctx, "seriea")
	require.NoError(t, err)

	provider.mu.Lock()
	provider.fixtures = provider.fixtures[:1]
	provider.mu.Unlock()

	refreshed, err := cached.Refresh(ctx, "seriea")
	require.NoError(t, err)
	assert.Len(t, refreshed, 1)

	fixtures, err := cached.UpcomingFixtures(ctx, "seriea")
	require.NoError(t, err)
	assert.Len(t, fixtures, 1)
	assert.Equal(t, 2, provider.callCount())
}

func TestRedisStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	store := NewRedisStoreFromClient(client, time.Minute)
	defer store.Close()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, store.Set(ctx, "k", sampleFixtures()))
	assert.Error(t, store.Ping(ctx))

	provider := &stubProvider{fixtures: sampleFixtures()}
	fixtures, err := NewCachedProvider(provider, store, testLogger()).UpcomingFixtures(ctx, "laliga")
	require.NoError(t, err)
	assert.Len(t, fixtures, 2)
}

// TestRedisStoreRoundTrip runs against a live server when LP2M_TEST_REDIS_ADDR is set.
func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("LP2M_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LP2M_TEST_REDIS_ADDR not set")
	}

	store := NewRedisStore(config.RedisConfig{Addr: addr}, time.Minute)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	key := Key("test", int(time.Now().UnixNano()%1_000_000))
	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, key, sampleFixtures()))
	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "Paris SG", got[0].Home)
	assert.JSONEq(t, `{"idEvent":"1"}`, string(got[0].Raw))
}
