package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 300, cfg.RateLimitPerMinute)
	assert.Equal(t, 50, cfg.RateLimitBurst)

	settings := cfg.ProjectionSettings()
	assert.Equal(t, 2025, settings.ReferenceYear)
	assert.Equal(t, []int{0, 10, 20}, settings.HorizonOffsets)
	assert.Equal(t, 45, settings.BaseAge)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.planner.app")
	t.Setenv("REFERENCE_YEAR", "2030")
	t.Setenv("HORIZON_OFFSETS", "0, 5,15")
	t.Setenv("BASE_AGE", "40")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://planner.app")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2030, cfg.Projection.ReferenceYear)
	assert.Equal(t, []int{0, 5, 15}, cfg.Projection.HorizonOffsets)
	assert.Equal(t, 40, cfg.Projection.BaseAge)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, []string{"http://localhost:5173", "https://planner.app"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing api url", map[string]string{}, "API_BASE_URL is required"},
		{"api url scheme", map[string]string{"API_BASE_URL": "localhost:3000"}, "API_BASE_URL must be an http(s) URL"},
		{"redis without url", map[string]string{"API_BASE_URL": "http://api", "CACHE_BACKEND": "redis"}, "REDIS_URL is required"},
		{"unknown backend", map[string]string{"API_BASE_URL": "http://api", "CACHE_BACKEND": "memcached"}, "CACHE_BACKEND must be"},
		{"bad year", map[string]string{"API_BASE_URL": "http://api", "REFERENCE_YEAR": "next"}, "REFERENCE_YEAR must be an integer"},
		{"bad offsets", map[string]string{"API_BASE_URL": "http://api", "HORIZON_OFFSETS": "0,-10"}, "HORIZON_OFFSETS must be"},
		{"bad timeout", map[string]string{"API_BASE_URL": "http://api", "API_TIMEOUT": "soon"}, "API_TIMEOUT must be a positive duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_BASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
