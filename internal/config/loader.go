// Package config provides configuration management for the LP2M backend.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. LP2M_SERVER_PORT.
const EnvPrefix = "LP2M"

const defaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := readExpanded(v, data); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unprefixed names kept for deployments configured for the previous backend.
	_ = v.BindEnv("provider.thesportsdb.api_key", EnvPrefix+"_PROVIDER_THESPORTSDB_API_KEY", "THESPORTSDB_KEY")
	_ = v.BindEnv("provider.api_football.api_key", EnvPrefix+"_PROVIDER_API_FOOTBALL_API_KEY", "API_FOOTBALL_KEY")
	return v
}

func readExpanded(v *viper.Viper, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := applyPortEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyPortEnv honours the bare PORT variable set by most hosting platforms.
func applyPortEnv(cfg *Config) error {
	raw := os.Getenv("PORT")
	if raw == "" {
		return nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid PORT %q: %w", raw, err)
	}
	cfg.Server.Port = port
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lp2m")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 10000)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.request_timeout_seconds", 30)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("provider.name", ProviderTheSportsDB)
	v.SetDefault("provider.thesportsdb.base_url", "https://www.thesportsdb.com/api/v1/json")
	v.SetDefault("provider.thesportsdb.api_key", "3")
	v.SetDefault("provider.api_football.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("provider.api_football.api_key", "")
	v.SetDefault("provider.api_football.next_fixtures", 10)
	v.SetDefault("provider.http.timeout_seconds", 15)
	v.SetDefault("provider.http.max_retries", 3)
	v.SetDefault("provider.http.retry_wait_min_millis", 200)
	v.SetDefault("provider.http.retry_wait_max_millis", 5000)
	v.SetDefault("provider.http.rate_limit", 5.0)
	v.SetDefault("provider.http.circuit_breaker_max", 5)

	v.SetDefault("predictor.base_home_xg", 1.45)
	v.SetDefault("predictor.base_away_xg", 1.15)
	v.SetDefault("predictor.min_xg", 0.2)
	v.SetDefault("predictor.default_max_goals", 7)
	v.SetDefault("predictor.max_goals_limit", 20)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.redis.addr", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("scheduler.warmup_cron", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
