// Package config provides configuration management for the LP2M backend.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// publicTheSportsDBKey is the shared demo key published by TheSportsDB.
const publicTheSportsDBKey = "3"

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("provider", validateProvider)
	_ = v.RegisterValidation("cachebackend", validateCacheBackend)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateProvider(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case ProviderTheSportsDB, ProviderAPIFootball:
		return true
	default:
		return false
	}
}

func validateCacheBackend(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case CacheBackendMemory, CacheBackendRedis:
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	switch cfg.Provider.Name {
	case ProviderTheSportsDB:
		if cfg.Provider.TheSportsDB.BaseURL == "" {
			return fmt.Errorf("provider thesportsdb requires base_url")
		}
		if cfg.Provider.TheSportsDB.APIKey == "" {
			return fmt.Errorf("provider thesportsdb requires api_key")
		}
	case ProviderAPIFootball:
		if cfg.Provider.APIFootball.BaseURL == "" {
			return fmt.Errorf("provider api-football requires base_url")
		}
		if cfg.Provider.APIFootball.APIKey == "" {
			return fmt.Errorf("provider api-football requires api_key")
		}
		if cfg.Provider.APIFootball.NextFixtures <= 0 {
			return fmt.Errorf("provider api-football requires next_fixtures > 0")
		}
	}

	if cfg.Provider.HTTP.RetryWaitMinMillis > cfg.Provider.HTTP.RetryWaitMaxMillis {
		return fmt.Errorf("retry_wait_min_millis cannot exceed retry_wait_max_millis")
	}

	if cfg.Predictor.DefaultMaxGoals > cfg.Predictor.MaxGoalsLimit {
		return fmt.Errorf("default_max_goals cannot exceed max_goals_limit")
	}

	if cfg.Cache.Enabled && cfg.Cache.Backend == CacheBackendRedis && cfg.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache backend redis requires redis.addr")
	}

	if cfg.Scheduler.WarmupCron != "" {
		if !cfg.Cache.Enabled {
			return fmt.Errorf("scheduler warmup_cron requires the cache to be enabled")
		}
		if _, err := cron.ParseStandard(cfg.Scheduler.WarmupCron); err != nil {
			return fmt.Errorf("invalid scheduler warmup_cron %q: %w", cfg.Scheduler.WarmupCron, err)
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "provider":
			fmt.Fprintf(&b, "- Field '%s' must be one of: %s, %s\n", field, ProviderTheSportsDB, ProviderAPIFootball)
		case "cachebackend":
			fmt.Fprintf(&b, "- Field '%s' must be one of: %s, %s\n", field, CacheBackendMemory, CacheBackendRedis)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

// ValidateEnvironment reports settings that are legal but unsuitable for the
// configured environment.
func ValidateEnvironment(cfg *Config) error {
	if !cfg.IsProduction() {
		return nil
	}

	if cfg.Provider.Name == ProviderTheSportsDB && cfg.Provider.TheSportsDB.APIKey == publicTheSportsDBKey {
		return fmt.Errorf("production environment should not use the public TheSportsDB key")
	}

	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("production environment should restrict allowed_origins")
		}
	}

	return nil
}
