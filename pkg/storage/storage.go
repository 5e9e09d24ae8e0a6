// Package storage provides read access to artifacts (run files, models, class
// manifests) through a local filesystem or Azure Blob Storage backend.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

// System reads artifacts by slash-separated key and participates in lifecycle coordination.
type System interface {
	// Start registers lifecycle hooks that verify and release the backend.
	Start(lc *lifecycle.Coordinator) error
	// Download returns a stream for the artifact at key. The caller must close the reader.
	// Returns ErrNotFound if the artifact does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether an artifact exists at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates the storage system for cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)
	switch cfg.Provider {
	case ProviderLocal:
		return newLocal(cfg, logger)
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// ReadAll downloads the artifact at key into memory.
func ReadAll(ctx context.Context, sys System, key string) ([]byte, error) {
	rc, err := sys.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Join builds an artifact key from path segments.
func Join(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, "/")
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
