// Package config provides configuration management for the LP2M backend.
package config

import (
	"fmt"
	"time"
)

// Provider names accepted in provider.name.
const (
	ProviderTheSportsDB = "thesportsdb"
	ProviderAPIFootball = "api-football"
)

// Cache backends accepted in cache.backend.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Provider  ProviderConfig  `mapstructure:"provider" validate:"required"`
	Predictor PredictorConfig `mapstructure:"predictor" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API listener
type ServerConfig struct {
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds    int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds   int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins        []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// ProviderConfig selects and configures the fixture provider
type ProviderConfig struct {
	Name        string            `mapstructure:"name" validate:"required,provider"`
	TheSportsDB TheSportsDBConfig `mapstructure:"thesportsdb"`
	APIFootball APIFootballConfig `mapstructure:"api_football"`
	HTTP        HTTPConfig        `mapstructure:"http" validate:"required"`
}

// TheSportsDBConfig represents TheSportsDB API configuration
type TheSportsDBConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
}

// APIFootballConfig represents API-Football configuration
type APIFootballConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey       string `mapstructure:"api_key"`
	NextFixtures int    `mapstructure:"next_fixtures" validate:"gte=0"`
}

// HTTPConfig represents the outbound HTTP client used by providers
type HTTPConfig struct {
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMillis int     `mapstructure:"retry_wait_min_millis" validate:"required,gt=0"`
	RetryWaitMaxMillis int     `mapstructure:"retry_wait_max_millis" validate:"required,gt=0"`
	RateLimit          float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax  int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// PredictorConfig represents the Poisson model calibration
type PredictorConfig struct {
	BaseHomeXG      float64 `mapstructure:"base_home_xg" validate:"required,gt=0"`
	BaseAwayXG      float64 `mapstructure:"base_away_xg" validate:"required,gt=0"`
	MinXG           float64 `mapstructure:"min_xg" validate:"required,gt=0"`
	DefaultMaxGoals int     `mapstructure:"default_max_goals" validate:"gte=0"`
	MaxGoalsLimit   int     `mapstructure:"max_goals_limit" validate:"required,gt=0,lte=1000"`
}

// CacheConfig represents fixture caching
type CacheConfig struct {
	Enabled    bool        `mapstructure:"enabled"`
	Backend    string      `mapstructure:"backend" validate:"required,cachebackend"`
	TTLSeconds int         `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int         `mapstructure:"max_size" validate:"required,gt=0"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// RedisConfig represents the optional shared cache
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// SchedulerConfig represents the fixture warm-up job. An empty cron disables it.
type SchedulerConfig struct {
	WarmupCron string `mapstructure:"warmup_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddr returns the HTTP listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CacheTTL returns the fixture cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// RequestTimeout returns the per-request handler timeout
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
