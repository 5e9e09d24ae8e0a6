package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAnalysisPrefix     = "WAYFINDER_ANALYSIS_PREFIX"
	EnvAnalysisDefaultRun = "WAYFINDER_ANALYSIS_DEFAULT_RUN"
	EnvAnalysisSessionTTL = "WAYFINDER_ANALYSIS_SESSION_TTL"
	EnvAnalysisAutoLoad   = "WAYFINDER_ANALYSIS_AUTO_LOAD"
)

// AnalysisConfig locates training runs and tunes dashboard sessions.
type AnalysisConfig struct {
	Prefix        string  `toml:"prefix"`
	Manifest      string  `toml:"manifest"`
	DefaultRun    string  `toml:"default_run"`
	SessionTTL    string  `toml:"session_ttl"`
	SweepInterval string  `toml:"sweep_interval"`
	AutoLoad      *bool   `toml:"auto_load"`
	GraphWidth    float64 `toml:"graph_width"`
	ChartWidth    float64 `toml:"chart_width"`
}

// SessionTTLDuration returns SessionTTL as a time.Duration.
func (c *AnalysisConfig) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *AnalysisConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// LoadsDefaultRun reports whether new sessions load the catalog default.
func (c *AnalysisConfig) LoadsDefaultRun() bool {
	return c.AutoLoad == nil || *c.AutoLoad
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.Manifest != "" {
		c.Manifest = overlay.Manifest
	}
	if overlay.DefaultRun != "" {
		c.DefaultRun = overlay.DefaultRun
	}
	if overlay.SessionTTL != "" {
		c.SessionTTL = overlay.SessionTTL
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	if overlay.AutoLoad != nil {
		c.AutoLoad = overlay.AutoLoad
	}
	if overlay.GraphWidth != 0 {
		c.GraphWidth = overlay.GraphWidth
	}
	if overlay.ChartWidth != 0 {
		c.ChartWidth = overlay.ChartWidth
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.Prefix == "" {
		c.Prefix = "runs"
	}
	if c.Manifest == "" {
		c.Manifest = "runs.json"
	}
	if c.DefaultRun == "" {
		c.DefaultRun = "conv_max_256_final"
	}
	if c.SessionTTL == "" {
		c.SessionTTL = "30m"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
	if c.GraphWidth == 0 {
		c.GraphWidth = 760
	}
	if c.ChartWidth == 0 {
		c.ChartWidth = 640
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisPrefix); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv(EnvAnalysisDefaultRun); v != "" {
		c.DefaultRun = v
	}
	if v := os.Getenv(EnvAnalysisSessionTTL); v != "" {
		c.SessionTTL = v
	}
	if v := os.Getenv(EnvAnalysisAutoLoad); v != "" {
		if auto, err := strconv.ParseBool(v); err == nil {
			c.AutoLoad = &auto
		}
	}
}

func (c *AnalysisConfig) validate() error {
	ttl, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session_ttl: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("invalid session_ttl: %s", c.SessionTTL)
	}
	if _, err := time.ParseDuration(c.SweepInterval); err != nil {
		return fmt.Errorf("invalid sweep_interval: %w", err)
	}
	if c.GraphWidth < 0 || c.ChartWidth < 0 {
		return fmt.Errorf("render widths must be positive")
	}
	return nil
}
