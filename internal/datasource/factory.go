package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/logger"
)

// Factory creates FixtureProvider implementations based on configuration
type Factory struct {
	logger *logger.ProviderLogger
	config config.ProviderConfig
}

// NewFactory creates a new provider factory
func NewFactory(cfg config.ProviderConfig, log *logrus.Logger) *Factory {
	return &Factory{
		logger: logger.NewProviderLogger(log),
		config: cfg,
	}
}

// NewHTTPClient builds the shared outbound client from the provider HTTP settings
func (f *Factory) NewHTTPClient() *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(HTTPClientConfigFrom(f.config.HTTP), f.logger)
}

// NewProvider creates the configured FixtureProvider on top of httpClient
func (f *Factory) NewProvider(httpClient *RateLimitedHTTPClient) (FixtureProvider, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch f.config.Name {
	case config.ProviderTheSportsDB:
		tsdb := f.config.TheSportsDB
		if tsdb.APIKey == "" {
			return nil, fmt.Errorf("TheSportsDB API key is required")
		}
		return NewTheSportsDBClient(httpClient, tsdb.BaseURL, tsdb.APIKey, f.logger), nil

	case config.ProviderAPIFootball:
		af := f.config.APIFootball
		if af.APIKey == "" {
			return nil, fmt.Errorf("API-Football API key is required")
		}
		return NewAPIFootballClient(httpClient, af.BaseURL, af.APIKey, af.NextFixtures, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown fixture provider: %s", f.config.Name)
	}
}

// Create builds the HTTP client and the configured provider
func (f *Factory) Create() (FixtureProvider, error) {
	return f.NewProvider(f.NewHTTPClient())
}

// AvailableProviders lists the provider names the factory understands
func AvailableProviders() []string {
	return []string{config.ProviderTheSportsDB, config.ProviderAPIFootball}
}
