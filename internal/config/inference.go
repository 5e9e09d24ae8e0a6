package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvInferenceEnabled    = "WAYFINDER_INFERENCE_ENABLED"
	EnvInferenceLibrary    = "WAYFINDER_INFERENCE_LIBRARY"
	EnvInferenceThreads    = "WAYFINDER_INFERENCE_THREADS"
	EnvInferencePrefix     = "WAYFINDER_INFERENCE_PREFIX"
	EnvInferenceManifest   = "WAYFINDER_INFERENCE_MANIFEST"
	EnvInferenceStagingDir = "WAYFINDER_INFERENCE_STAGING_DIR"
	EnvInferenceGroupLimit = "WAYFINDER_INFERENCE_GROUP_LIMIT"
	EnvInferenceMaxPixels  = "WAYFINDER_INFERENCE_MAX_PIXELS"
)

// InferenceConfig locates the model catalog and configures the ONNX runtime.
type InferenceConfig struct {
	// Enabled is a pointer so an overlay can switch inference off.
	Enabled    *bool  `toml:"enabled"`
	Library    string `toml:"library"`
	Threads    int    `toml:"threads"`
	Prefix     string `toml:"prefix"`
	Manifest   string `toml:"manifest"`
	StagingDir string `toml:"staging_dir"`
	LoadLimit  int    `toml:"load_limit"`
	GroupLimit int    `toml:"group_limit"`
	MaxPixels  int    `toml:"max_pixels"`
}

// IsEnabled reports whether the classifier should start a runtime.
func (c *InferenceConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *InferenceConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *InferenceConfig) Merge(overlay *InferenceConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Library != "" {
		c.Library = overlay.Library
	}
	if overlay.Threads != 0 {
		c.Threads = overlay.Threads
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.Manifest != "" {
		c.Manifest = overlay.Manifest
	}
	if overlay.StagingDir != "" {
		c.StagingDir = overlay.StagingDir
	}
	if overlay.LoadLimit != 0 {
		c.LoadLimit = overlay.LoadLimit
	}
	if overlay.GroupLimit != 0 {
		c.GroupLimit = overlay.GroupLimit
	}
	if overlay.MaxPixels != 0 {
		c.MaxPixels = overlay.MaxPixels
	}
}

func (c *InferenceConfig) loadDefaults() {
	if c.Threads == 0 {
		c.Threads = 1
	}
	if c.Prefix == "" {
		c.Prefix = "models"
	}
	if c.Manifest == "" {
		c.Manifest = "manifest.yaml"
	}
	if c.LoadLimit == 0 {
		c.LoadLimit = 4
	}
	if c.GroupLimit == 0 {
		c.GroupLimit = 4
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = 40_000_000
	}
}

func (c *InferenceConfig) loadEnv() {
	if v := os.Getenv(EnvInferenceEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = &enabled
		}
	}
	if v := os.Getenv(EnvInferenceLibrary); v != "" {
		c.Library = v
	}
	if v := os.Getenv(EnvInferenceThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Threads = n
		}
	}
	if v := os.Getenv(EnvInferencePrefix); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv(EnvInferenceManifest); v != "" {
		c.Manifest = v
	}
	if v := os.Getenv(EnvInferenceStagingDir); v != "" {
		c.StagingDir = v
	}
	if v := os.Getenv(EnvInferenceGroupLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GroupLimit = n
		}
	}
	if v := os.Getenv(EnvInferenceMaxPixels); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPixels = n
		}
	}
}

func (c *InferenceConfig) validate() error {
	if c.Threads < 0 {
		return fmt.Errorf("invalid threads: %d", c.Threads)
	}
	if c.LoadLimit < 1 {
		return fmt.Errorf("invalid load_limit: %d", c.LoadLimit)
	}
	if c.GroupLimit < 1 {
		return fmt.Errorf("invalid group_limit: %d", c.GroupLimit)
	}
	if c.MaxPixels < 1 {
		return fmt.Errorf("invalid max_pixels: %d", c.MaxPixels)
	}
	return nil
}
