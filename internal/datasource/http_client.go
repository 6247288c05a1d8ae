package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/metrics"
)

// ErrCircuitOpen is returned while the circuit breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker open")

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // max consecutive failures before circuit break
	// CircuitCooldown is how long the breaker stays open before a trial request.
	CircuitCooldown time.Duration
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           15 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      200 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         5.0,
		CircuitBreakerMax: 5,
		CircuitCooldown:   30 * time.Second,
	}
}

// HTTPClientConfigFrom converts the provider HTTP settings.
func HTTPClientConfigFrom(cfg config.HTTPConfig) HTTPClientConfig {
	def := DefaultHTTPClientConfig()
	return HTTPClientConfig{
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.MaxRetries,
		RetryWaitMin:      time.Duration(cfg.RetryWaitMinMillis) * time.Millisecond,
		RetryWaitMax:      time.Duration(cfg.RetryWaitMaxMillis) * time.Millisecond,
		RateLimit:         cfg.RateLimit,
		CircuitBreakerMax: cfg.CircuitBreakerMax,
		CircuitCooldown:   def.CircuitCooldown,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and circuit breaker
type RateLimitedHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int
	cooldown          time.Duration
	logger            *logger.ProviderLogger

	mu                sync.Mutex
	consecutiveErrors int
	isOpen            bool
	trialInFlight     bool
	openedAt          time.Time
	lastError         error
	now               func() time.Time
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, log *logger.ProviderLogger) *RateLimitedHTTPClient {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logger.NewProviderLogger(discard)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Hand the final response back so providers can report the upstream status.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{entry: log.Entry}

	return &RateLimitedHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
		cooldown:          cfg.CircuitCooldown,
		logger:            log,
		now:               time.Now,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.allow(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.releaseTrial()
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		c.releaseTrial()
		return nil, fmt.Errorf("building retryable request: %w", err)
	}

	resp, err := c.client.Do(retryReq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.recordFailure(fmt.Errorf("upstream status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}

	return resp, nil
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Healthy reports ErrCircuitOpen while the breaker is open and cooling down.
func (c *RateLimitedHTTPClient) Healthy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isOpen && c.now().Sub(c.openedAt) < c.cooldown {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
	}
	return nil
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *RateLimitedHTTPClient) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return nil
	}
	// Half-open: once the cooldown has passed exactly one trial request goes
	// through. Everyone else is rejected until that request settles.
	if !c.trialInFlight && c.now().Sub(c.openedAt) >= c.cooldown {
		c.trialInFlight = true
		c.logger.LogCircuitBreakerEvent("half_open", c.consecutiveErrors, c.lastError)
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
}

// releaseTrial gives up a trial slot without a verdict from upstream.
func (c *RateLimitedHTTPClient) releaseTrial() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.trialInFlight = false
}

func (c *RateLimitedHTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveErrors++
	c.lastError = err

	if c.trialInFlight {
		c.trialInFlight = false
		c.openedAt = c.now()
		metrics.RecordCircuitBreakerTrip()
		c.logger.LogCircuitBreakerEvent("open", c.consecutiveErrors, err)
		return
	}
	if !c.isOpen && c.consecutiveErrors >= c.circuitBreakerMax {
		c.isOpen = true
		c.openedAt = c.now()
		metrics.RecordCircuitBreakerTrip()
		c.logger.LogCircuitBreakerEvent("open", c.consecutiveErrors, err)
	}
}

func (c *RateLimitedHTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isOpen {
		c.logger.LogCircuitBreakerEvent("closed", c.consecutiveErrors, nil)
	}
	c.consecutiveErrors = 0
	c.isOpen = false
	c.trialInFlight = false
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, err
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}

		return false, nil
	}
}

// retryLogger routes retryablehttp's request chatter to debug level.
type retryLogger struct {
	entry *logrus.Entry
}

func (l retryLogger) Printf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// maxResponseBytes caps how much of an upstream reply is read.
const maxResponseBytes = 4 << 20

// fetchBody performs req and returns the body of a 2xx reply. Any other
// status becomes a ProviderError carrying "API error {status}: {body}".
func fetchBody(ctx context.Context, client *RateLimitedHTTPClient, provider string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(provider, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewProviderError(provider, ErrCodeNetworkError, "failed to read response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewProviderError(provider, statusErrorCode(resp.StatusCode),
			fmt.Sprintf("API error %d: %s", resp.StatusCode, string(body)), nil)
	}

	return body, nil
}
