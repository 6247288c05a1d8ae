package service

import (
	"context"
	"errors"

	"github.com/yourusername/lp2m/internal/datasource"
	"github.com/yourusername/lp2m/internal/models"
)

// FixtureService exposes the public league list and upcoming fixtures
type FixtureService struct {
	provider datasource.FixtureProvider
}

// NewFixtureService creates a fixture service over provider, usually a cache.CachedProvider
func NewFixtureService(provider datasource.FixtureProvider) *FixtureService {
	return &FixtureService{provider: provider}
}

// Leagues returns the public leagues in display order
func (s *FixtureService) Leagues() []models.League {
	return models.PublicLeagues()
}

// UpcomingFixtures returns the next fixtures for a league key or numeric id
func (s *FixtureService) UpcomingFixtures(ctx context.Context, league string) ([]models.Fixture, error) {
	fixtures, err := s.provider.UpcomingFixtures(ctx, league)
	if err != nil {
		return nil, err
	}
	if fixtures == nil {
		fixtures = []models.Fixture{}
	}
	return fixtures, nil
}

// Ping reports provider availability
func (s *FixtureService) Ping(ctx context.Context) error {
	return s.provider.Ping(ctx)
}

// ProviderName returns the configured provider name
func (s *FixtureService) ProviderName() string {
	return s.provider.Name()
}

// IsLeagueError reports whether err comes from league resolution.
func IsLeagueError(err error) bool {
	return errors.Is(err, models.ErrLeagueRequired) || errors.Is(err, models.ErrUnknownLeague)
}
