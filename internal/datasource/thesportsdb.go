package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/metrics"
	"github.com/yourusername/lp2m/internal/models"
)

// TheSportsDBName is the provider name used in config, logs and cache keys.
const TheSportsDBName = "thesportsdb"

// TheSportsDBClient implements FixtureProvider for TheSportsDB v1 API
type TheSportsDBClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	leagues    models.LeagueIDs
	logger     *logger.ProviderLogger
}

// tsdbEnvelope is the eventsnextleague.php payload. Depending on the API
// version the list is published under "events" or "event".
type tsdbEnvelope struct {
	Events []json.RawMessage `json:"events"`
	Event  []json.RawMessage `json:"event"`
}

// tsdbEvent represents the fields we read from a TheSportsDB event
type tsdbEvent struct {
	IDEvent     string `json:"idEvent"`
	DateEvent   string `json:"dateEvent"`
	StrTime     string `json:"strTime"`
	StrHomeTeam string `json:"strHomeTeam"`
	StrAwayTeam string `json:"strAwayTeam"`
	StrLeague   string `json:"strLeague"`
}

// NewTheSportsDBClient creates a new TheSportsDB client
func NewTheSportsDBClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, log *logger.ProviderLogger) *TheSportsDBClient {
	return &TheSportsDBClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		leagues:    models.TheSportsDBLeagueIDs(),
		logger:     log,
	}
}

// UpcomingFixtures retrieves the next events of a league
func (c *TheSportsDBClient) UpcomingFixtures(ctx context.Context, league string) ([]models.Fixture, error) {
	leagueID, err := c.ResolveLeague(league)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/eventsnextleague.php?id=%d", c.baseURL, url.PathEscape(c.apiKey), leagueID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewProviderError(TheSportsDBName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	body, err := fetchBody(ctx, c.httpClient, TheSportsDBName, req)
	if err != nil {
		metrics.RecordFixtureRequest(TheSportsDBName, false, time.Since(start).Seconds())
		c.logger.LogFetchFailed(TheSportsDBName, leagueID, err)
		return nil, err
	}

	fixtures, err := c.parseEvents(body)
	if err != nil {
		metrics.RecordFixtureRequest(TheSportsDBName, false, time.Since(start).Seconds())
		c.logger.LogFetchFailed(TheSportsDBName, leagueID, err)
		return nil, err
	}

	metrics.RecordFixtureRequest(TheSportsDBName, true, time.Since(start).Seconds())
	c.logger.LogFixturesFetched(TheSportsDBName, leagueID, len(fixtures), time.Since(start))
	return fixtures, nil
}

// parseEvents converts the TheSportsDB payload, keeping each raw event.
func (c *TheSportsDBClient) parseEvents(body []byte) ([]models.Fixture, error) {
	var env tsdbEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, NewProviderError(TheSportsDBName, ErrCodeInvalidData, "failed to parse response", err)
	}

	events := env.Events
	if events == nil {
		events = env.Event
	}

	fixtures := make([]models.Fixture, 0, len(events))
	for _, raw := range events {
		var ev tsdbEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.logger.WithError(err).Warn("Skipping malformed TheSportsDB event")
			continue
		}
		fixtures = append(fixtures, models.Fixture{
			ID:     ev.IDEvent,
			Date:   ev.DateEvent,
			Time:   ev.StrTime,
			Home:   ev.StrHomeTeam,
			Away:   ev.StrAwayTeam,
			League: ev.StrLeague,
			Raw:    raw,
		})
	}

	return fixtures, nil
}

// ResolveLeague maps a key or numeric id to a TheSportsDB league id
func (c *TheSportsDBClient) ResolveLeague(league string) (int, error) {
	return c.leagues.Resolve(league)
}

// Name returns the provider name
func (c *TheSportsDBClient) Name() string {
	return TheSportsDBName
}

// Ping reports an open circuit breaker
func (c *TheSportsDBClient) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.httpClient.Healthy()
}
