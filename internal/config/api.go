package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/wayfinder/pkg/formatting"
	"github.com/JaimeStill/wayfinder/pkg/middleware"
)

const defaultMaxUploadSize = 10 * 1024 * 1024

var corsEnv = &middleware.CORSEnv{
	Enabled:          "WAYFINDER_CORS_ENABLED",
	Origins:          "WAYFINDER_CORS_ORIGINS",
	AllowedMethods:   "WAYFINDER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "WAYFINDER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "WAYFINDER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "WAYFINDER_CORS_MAX_AGE",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	Enabled:           "WAYFINDER_RATE_LIMIT_ENABLED",
	RequestsPerSecond: "WAYFINDER_RATE_LIMIT_RPS",
	Burst:             "WAYFINDER_RATE_LIMIT_BURST",
	TTL:               "WAYFINDER_RATE_LIMIT_TTL",
}

// APIConfig holds API routing, upload, CORS, and classify rate limit settings.
type APIConfig struct {
	BasePath      string                     `toml:"base_path"`
	MaxUploadSize string                     `toml:"max_upload_size"`
	CORS          middleware.CORSConfig      `toml:"cors"`
	RateLimit     middleware.RateLimitConfig `toml:"rate_limit"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes, falling back to 10MB
// when unparseable.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil || size <= 0 {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and rate limit configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.RateLimit.Merge(&overlay.RateLimit)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("WAYFINDER_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("WAYFINDER_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path %q: must be a single segment like /api", c.BasePath)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
