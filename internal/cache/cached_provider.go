package cache

import (
	"context"
	"strconv"

	"github.com/yourusername/lp2m/internal/datasource"
	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/models"
)

// CachedProvider wraps a FixtureProvider with fixture list caching
type CachedProvider struct {
	provider datasource.FixtureProvider
	store    Store
	logger   *logger.ProviderLogger
}

// NewCachedProvider creates a new cached provider
func NewCachedProvider(provider datasource.FixtureProvider, store Store, log *logger.ProviderLogger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		store:    store,
		logger:   log,
	}
}

// UpcomingFixtures serves from cache and falls back to the provider on a miss.
// Cache failures are logged and the request goes upstream.
func (c *CachedProvider) UpcomingFixtures(ctx context.Context, league string) ([]models.Fixture, error) {
	leagueID, err := c.provider.ResolveLeague(league)
	if err != nil {
		return nil, err
	}
	key := Key(c.provider.Name(), leagueID)

	cached, found, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.LogCacheError("get", key, err)
	case found:
		c.logger.LogCacheHit(key)
		return cached, nil
	}

	return c.fetchAndStore(ctx, leagueID, key)
}

// Refresh fetches a league upstream and overwrites its cache entry
func (c *CachedProvider) Refresh(ctx context.Context, league string) ([]models.Fixture, error) {
	leagueID, err := c.provider.ResolveLeague(league)
	if err != nil {
		return nil, err
	}
	return c.fetchAndStore(ctx, leagueID, Key(c.provider.Name(), leagueID))
}

func (c *CachedProvider) fetchAndStore(ctx context.Context, leagueID int, key string) ([]models.Fixture, error) {
	fixtures, err := c.provider.UpcomingFixtures(ctx, strconv.Itoa(leagueID))
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, fixtures); err != nil {
		c.logger.LogCacheError("set", key, err)
	}
	return fixtures, nil
}

// ResolveLeague delegates to the wrapped provider
func (c *CachedProvider) ResolveLeague(league string) (int, error) {
	return c.provider.ResolveLeague(league)
}

// Name returns the wrapped provider's name
func (c *CachedProvider) Name() string {
	return c.provider.Name()
}

// Ping delegates to the wrapped provider
func (c *CachedProvider) Ping(ctx context.Context) error {
	return c.provider.Ping(ctx)
}

// Close closes the underlying store
func (c *CachedProvider) Close() error {
	return c.store.Close()
}
