package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/joho/godotenv"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port           string
	Env            string
	AllowedOrigins []string

	// Planner API
	APIBaseURL string
	APITimeout time.Duration

	// Cache
	Cache CacheConfig

	// Projection dashboard
	Projection domain.ProjectionSettings

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int
}

// CacheConfig holds the read cache configuration
type CacheConfig struct {
	Backend  string
	RedisURL string
	TTL      time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var errs []string
	parse := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		Cache: CacheConfig{
			Backend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
			RedisURL: getEnv("REDIS_URL", ""),
		},
	}

	var err error
	cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second)
	parse(err)
	cfg.Cache.TTL, err = getDuration("CACHE_TTL", 5*time.Minute)
	parse(err)
	cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 300)
	parse(err)
	cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50)
	parse(err)

	defaults := domain.DefaultProjectionSettings()
	cfg.Projection.ReferenceYear, err = getInt("REFERENCE_YEAR", defaults.ReferenceYear)
	parse(err)
	cfg.Projection.BaseAge, err = getInt("BASE_AGE", defaults.BaseAge)
	parse(err)
	cfg.Projection.HorizonOffsets, err = getIntList("HORIZON_OFFSETS", defaults.HorizonOffsets)
	parse(err)

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ProjectionSettings returns the dashboard baseline
func (c *Config) ProjectionSettings() domain.ProjectionSettings {
	return c.Projection
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL")
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND is redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q", CacheMemory, CacheRedis)
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	if len(c.Projection.HorizonOffsets) == 0 {
		return fmt.Errorf("HORIZON_OFFSETS must list at least one offset")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}

func getIntList(key string, defaultValue []int) ([]int, error) {
	value := os.Getenv(key)
	if value == "" {
		return append([]int(nil), defaultValue...), nil
	}
	var out []int
	for _, part := range splitList(value) {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a comma separated list of non-negative integers", key)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
