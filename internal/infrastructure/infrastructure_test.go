package infrastructure_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/wayfinder/internal/config"
	"github.com/JaimeStill/wayfinder/internal/infrastructure"
	"github.com/JaimeStill/wayfinder/pkg/storage"
)

func validConfig(t *testing.T) *config.Config {
	disabled := false
	return &config.Config{
		Storage: storage.Config{
			Provider: storage.ProviderLocal,
			Root:     t.TempDir(),
		},
		Inference: config.InferenceConfig{Enabled: &disabled},
		Version:   "0.1.0",
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.NewWithLogger(validConfig(t), discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Runtime != nil {
		t.Error("Runtime created with inference disabled")
	}
}

func TestNewMissingArtifactRoot(t *testing.T) {
	cfg := validConfig(t)
	cfg.Storage.Root = cfg.Storage.Root + "/does-not-exist"

	if _, err := infrastructure.NewWithLogger(cfg, discard()); err == nil {
		t.Fatal("expected error for missing artifact root")
	}
}

func TestStart(t *testing.T) {
	infra, err := infrastructure.NewWithLogger(validConfig(t), discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	infra.Lifecycle.WaitForStartup()
	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
