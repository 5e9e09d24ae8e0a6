package middleware

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitConfig holds per-client token bucket settings.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	TTL               string  `toml:"ttl"`
}

// RateLimitEnv maps rate limit config fields to environment variable names.
type RateLimitEnv struct {
	Enabled           string
	RequestsPerSecond string
	Burst             string
	TTL               string
}

// TTLDuration returns TTL as a time.Duration.
func (c *RateLimitConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RateLimitConfig) Finalize(env *RateLimitEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies; numeric and
// duration fields only when set.
func (c *RateLimitConfig) Merge(overlay *RateLimitConfig) {
	c.Enabled = overlay.Enabled
	if overlay.RequestsPerSecond > 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst > 0 {
		c.Burst = overlay.Burst
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
}

func (c *RateLimitConfig) loadDefaults() {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 2
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.TTL == "" {
		c.TTL = "10m"
	}
}

func (c *RateLimitConfig) loadEnv(env *RateLimitEnv) {
	if v := lookupEnv(env.Enabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := lookupEnv(env.RequestsPerSecond); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps > 0 {
			c.RequestsPerSecond = rps
		}
	}
	if v := lookupEnv(env.Burst); v != "" {
		if burst, err := strconv.Atoi(v); err == nil && burst > 0 {
			c.Burst = burst
		}
	}
	if v := lookupEnv(env.TTL); v != "" {
		c.TTL = v
	}
}

func (c *RateLimitConfig) validate() error {
	if _, err := time.ParseDuration(c.TTL); err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	return nil
}
