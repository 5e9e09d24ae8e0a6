package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/wayfinder/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080

[storage]
provider = "local"
root = "artifacts"

[api]
base_path = "/api"
max_upload_size = "8MB"

[api.cors]
enabled = false

[api.rate_limit]
enabled = true
requests_per_second = 3
burst = 6

[inference]
prefix = "models"
threads = 2

[analysis]
prefix = "runs"
default_run = "baseline"
session_ttl = "15m"
`

const overlayConfig = `
[server]
port = 9090

[inference]
enabled = false

[analysis]
auto_load = false
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Root != "artifacts" {
		t.Errorf("storage root: got %s, want artifacts", cfg.Storage.Root)
	}
	if cfg.API.MaxUploadSizeBytes() != 8*1024*1024 {
		t.Errorf("max upload: got %d, want 8MB", cfg.API.MaxUploadSizeBytes())
	}
	if !cfg.API.RateLimit.Enabled || cfg.API.RateLimit.Burst != 6 {
		t.Errorf("rate limit: got %+v", cfg.API.RateLimit)
	}
	if cfg.Inference.Threads != 2 || !cfg.Inference.IsEnabled() {
		t.Errorf("inference: got %+v", cfg.Inference)
	}
	if cfg.Analysis.DefaultRun != "baseline" || cfg.Analysis.SessionTTLDuration() != 15*time.Minute {
		t.Errorf("analysis: got %+v", cfg.Analysis)
	}
	if !cfg.Analysis.LoadsDefaultRun() {
		t.Error("auto load should default to true")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("WAYFINDER_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Inference.IsEnabled() {
		t.Error("inference should be disabled by overlay")
	}
	if cfg.Analysis.LoadsDefaultRun() {
		t.Error("auto load should be disabled by overlay")
	}
	if cfg.Analysis.DefaultRun != "baseline" {
		t.Errorf("default run: got %s, want baseline (from base)", cfg.Analysis.DefaultRun)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	t.Setenv("WAYFINDER_VERSION", "2.0.0")
	t.Setenv("WAYFINDER_SERVER_PORT", "3000")
	t.Setenv("WAYFINDER_STORAGE_ROOT", "/srv/artifacts")
	t.Setenv("WAYFINDER_INFERENCE_LIBRARY", "/opt/onnxruntime.so")
	t.Setenv("WAYFINDER_ANALYSIS_AUTO_LOAD", "false")
	t.Setenv("WAYFINDER_RATE_LIMIT_BURST", "20")
	t.Setenv("WAYFINDER_SERVER_READ_HEADER_TIMEOUT", "3s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Storage.Root != "/srv/artifacts" {
		t.Errorf("storage root: got %s", cfg.Storage.Root)
	}
	if cfg.Inference.Library != "/opt/onnxruntime.so" {
		t.Errorf("inference library: got %s", cfg.Inference.Library)
	}
	if cfg.Analysis.LoadsDefaultRun() {
		t.Error("auto load env override ignored")
	}
	if cfg.API.RateLimit.Burst != 20 {
		t.Errorf("rate limit burst: got %d, want 20", cfg.API.RateLimit.Burst)
	}
	if d := cfg.Server.ReadHeaderTimeoutDuration(); d != 3*time.Second {
		t.Errorf("read header timeout: got %v, want 3s", d)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path default: got %s", cfg.API.BasePath)
	}
	if cfg.API.MaxUploadSizeBytes() != 10*1024*1024 {
		t.Errorf("max upload default: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.Inference.MaxPixels != 40_000_000 {
		t.Errorf("max pixels default: got %d", cfg.Inference.MaxPixels)
	}
	if cfg.Inference.Prefix != "models" || cfg.Inference.Manifest != "manifest.yaml" {
		t.Errorf("inference defaults: got %+v", cfg.Inference)
	}
	if cfg.Analysis.Prefix != "runs" || cfg.Analysis.Manifest != "runs.json" {
		t.Errorf("analysis defaults: got %+v", cfg.Analysis)
	}
	if cfg.Analysis.DefaultRun != "conv_max_256_final" {
		t.Errorf("default run: got %s", cfg.Analysis.DefaultRun)
	}
	if d := cfg.Server.ReadHeaderTimeoutDuration(); d != 10*time.Second {
		t.Errorf("read header timeout default: got %v, want 10s", d)
	}
	if d := cfg.Server.ReadTimeoutDuration(); d != time.Minute {
		t.Errorf("read timeout default: got %v, want 1m", d)
	}
	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv("WAYFINDER_ENV", "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"valid 512KB", "512KB", 512 * 1024},
		{"invalid falls back to 10MB", "bad", 10 * 1024 * 1024},
		{"empty falls back to 10MB", "", 10 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{"invalid port", "[server]\nport = 99999\n", "invalid port"},
		{"invalid read_timeout", "[server]\nread_timeout = \"bad\"\n", "invalid read_timeout"},
		{"invalid read_header_timeout", "[server]\nread_header_timeout = \"bad\"\n", "invalid read_header_timeout"},
		{"nested base path", "[api]\nbase_path = \"/api/v1\"\n", "invalid base_path"},
		{"bad upload size", "[api]\nmax_upload_size = \"lots\"\n", "invalid max_upload_size"},
		{"negative threads", "[inference]\nthreads = -1\n", "invalid threads"},
		{"negative max pixels", "[inference]\nmax_pixels = -5\n", "invalid max_pixels"},
		{"bad session ttl", "[analysis]\nsession_ttl = \"soon\"\n", "invalid session_ttl"},
		{"unknown storage provider", "[storage]\nprovider = \"s3\"\n", "unknown storage provider"},
		{"azure without connection", "[storage]\nprovider = \"azure\"\n", "connection_string required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
