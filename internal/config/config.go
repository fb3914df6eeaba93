// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the search service.
type Config struct {
	// Server
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  slog.Level
	LogFormat string

	// Provider; an empty URL uses the in-process generator
	ProviderURL     string
	ProviderTimeout time.Duration

	// Search
	SearchTimeout time.Duration
	SearchDelay   time.Duration
	CacheTTL      time.Duration

	// Rate limiting per client IP. X-Forwarded-For and X-Real-IP are only
	// trusted when TrustProxy is set.
	RateLimit  int
	RateWindow time.Duration
	TrustProxy bool
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() (*Config, error) {
	var errs []string
	duration := func(key string, def time.Duration) time.Duration {
		d, err := getEnvAsDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return d
	}
	integer := func(key string, def int) int {
		n, err := getEnvAsInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return n
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     duration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    duration("WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     duration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),

		ProviderURL:     strings.TrimRight(getEnv("PROVIDER_URL", ""), "/"),
		ProviderTimeout: duration("PROVIDER_TIMEOUT", 3*time.Second),

		SearchTimeout: duration("SEARCH_TIMEOUT", 5*time.Second),
		SearchDelay:   duration("SEARCH_DELAY", 0),
		CacheTTL:      duration("CACHE_TTL", 30*time.Second),

		RateLimit:  integer("RATE_LIMIT", 10),
		RateWindow: duration("RATE_WINDOW", time.Minute),
	}

	trustProxy, err := getEnvAsBool("TRUST_PROXY", false)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.TrustProxy = trustProxy

	positive := []struct {
		key   string
		value time.Duration
	}{
		{"READ_TIMEOUT", cfg.ReadTimeout},
		{"WRITE_TIMEOUT", cfg.WriteTimeout},
		{"IDLE_TIMEOUT", cfg.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout},
		{"PROVIDER_TIMEOUT", cfg.ProviderTimeout},
		{"SEARCH_TIMEOUT", cfg.SearchTimeout},
		{"CACHE_TTL", cfg.CacheTTL},
		{"RATE_WINDOW", cfg.RateWindow},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s: must be positive, got %s", p.key, p.value))
		}
	}
	if cfg.SearchDelay < 0 {
		errs = append(errs, fmt.Sprintf("SEARCH_DELAY: must not be negative, got %s", cfg.SearchDelay))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT: must be positive, got %d", cfg.RateLimit))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL: %v", err))
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT: must be json or text, got %q", cfg.LogFormat))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not a boolean", key, value)
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not a duration", key, value)
	}
	return d, nil
}
