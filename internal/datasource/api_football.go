package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/metrics"
	"github.com/yourusername/lp2m/internal/models"
)

// APIFootballName is the provider name used in config, logs and cache keys.
const APIFootballName = "api-football"

// APIFootballClient implements FixtureProvider for API-Football v3
type APIFootballClient struct {
	httpClient   *RateLimitedHTTPClient
	baseURL      string
	apiKey       string
	nextFixtures int
	leagues      models.LeagueIDs
	logger       *logger.ProviderLogger
	now          func() time.Time
}

type apiFootballResponse struct {
	Errors   json.RawMessage      `json:"errors"`
	Response []apiFootballFixture `json:"response"`
}

type apiFootballFixture struct {
	Fixture struct {
		ID   int64  `json:"id"`
		Date string `json:"date"`
	} `json:"fixture"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
}

// NewAPIFootballClient creates a new API-Football client
func NewAPIFootballClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, nextFixtures int, log *logger.ProviderLogger) *APIFootballClient {
	return &APIFootballClient{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		nextFixtures: nextFixtures,
		leagues:      models.APIFootballLeagueIDs(),
		logger:       log,
		now:          time.Now,
	}
}

// UpcomingFixtures retrieves the next fixtures of a league for the current season
func (c *APIFootballClient) UpcomingFixtures(ctx context.Context, league string) ([]models.Fixture, error) {
	leagueID, err := c.ResolveLeague(league)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(c.now().Year()))
	params.Set("next", strconv.Itoa(c.nextFixtures))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fixtures?"+params.Encode(), nil)
	if err != nil {
		return nil, NewProviderError(APIFootballName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	body, err := fetchBody(ctx, c.httpClient, APIFootballName, req)
	if err == nil {
		var fixtures []models.Fixture
		fixtures, err = parseAPIFootball(body)
		if err == nil {
			metrics.RecordFixtureRequest(APIFootballName, true, time.Since(start).Seconds())
			c.logger.LogFixturesFetched(APIFootballName, leagueID, len(fixtures), time.Since(start))
			return fixtures, nil
		}
	}

	metrics.RecordFixtureRequest(APIFootballName, false, time.Since(start).Seconds())
	c.logger.LogFetchFailed(APIFootballName, leagueID, err)
	return nil, err
}

func parseAPIFootball(body []byte) ([]models.Fixture, error) {
	var payload apiFootballResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, NewProviderError(APIFootballName, ErrCodeInvalidData, "failed to parse response", err)
	}

	if hasAPIErrors(payload.Errors) {
		return nil, NewProviderError(APIFootballName, ErrCodeAuthenticationFailed,
			fmt.Sprintf("API error: %s", string(payload.Errors)), nil)
	}

	fixtures := make([]models.Fixture, 0, len(payload.Response))
	for _, m := range payload.Response {
		fixtures = append(fixtures, models.Fixture{
			ID:     strconv.FormatInt(m.Fixture.ID, 10),
			Date:   m.Fixture.Date,
			Home:   m.Teams.Home.Name,
			Away:   m.Teams.Away.Name,
			League: m.League.Name,
		})
	}
	return fixtures, nil
}

// hasAPIErrors reports a populated "errors" member. API-Football sends an
// empty array on success and an object keyed by field on failure.
func hasAPIErrors(raw json.RawMessage) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch errs := v.(type) {
	case nil:
		return false
	case []interface{}:
		return len(errs) > 0
	case map[string]interface{}:
		return len(errs) > 0
	case string:
		return errs != ""
	default:
		return true
	}
}

// ResolveLeague maps a key or numeric id to an API-Football league id
func (c *APIFootballClient) ResolveLeague(league string) (int, error) {
	return c.leagues.Resolve(league)
}

// Name returns the provider name
func (c *APIFootballClient) Name() string {
	return APIFootballName
}

// Ping reports an open circuit breaker
func (c *APIFootballClient) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.httpClient.Healthy()
}
