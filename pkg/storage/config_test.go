package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/wayfinder/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("provider: got %s, want local", cfg.Provider)
	}
	if cfg.Root != "artifacts" {
		t.Errorf("root: got %s, want artifacts", cfg.Root)
	}
	if cfg.ContainerName != "artifacts" {
		t.Errorf("container_name: got %s, want artifacts", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "runs")
	t.Setenv("TEST_CONN", "override-connection")

	env := &storage.Env{
		Provider:         "TEST_PROVIDER",
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "runs" {
		t.Errorf("container_name: got %s, want runs", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure without connection_string",
			cfg:     storage.Config{Provider: storage.ProviderAzure},
			wantErr: "connection_string required",
		},
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "s3"},
			wantErr: "unknown storage provider",
		},
		{
			name: "local with defaults",
			cfg:  storage.Config{Provider: storage.ProviderLocal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFinalizeUnknownProviderIsSentinel(t *testing.T) {
	cfg := storage.Config{Provider: "gcs"}
	if err := cfg.Finalize(nil); !errors.Is(err, storage.ErrUnknownProvider) {
		t.Errorf("got %v, want ErrUnknownProvider", err)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "artifacts",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "artifacts" {
		t.Errorf("container_name should remain artifacts, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
	if base.Provider != storage.ProviderAzure {
		t.Errorf("provider should remain azure, got %s", base.Provider)
	}
}
