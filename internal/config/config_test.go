package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SEARCH_CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://gracecourt.ng, http://localhost:3000,,")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, []string{"https://gracecourt.ng", "http://localhost:3000"}, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: true},
		{name: "default secret in production", mutate: func(c *Config) { c.Env = "production" }, wantErr: true},
		{name: "custom secret in production", mutate: func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "a-real-secret"
		}},
		{name: "unknown storage driver", mutate: func(c *Config) { c.StorageDriver = "ftp" }, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *Config) {
			c.StorageDriver = "s3"
			c.S3Bucket = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabaseURL:   "postgres://localhost/gracecourt",
				JWTSecret:     defaultJWTSecret,
				Env:           "development",
				StorageDriver: "local",
				S3Bucket:      "bucket",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
