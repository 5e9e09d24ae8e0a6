// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, artifact storage, inference runtime)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/wayfinder/internal/classifier"
	"github.com/JaimeStill/wayfinder/internal/config"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
	"github.com/JaimeStill/wayfinder/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	// Runtime is nil when inference is disabled or the runtime library
	// could not be loaded; the classifier then reports itself not ready.
	Runtime classifier.Runtime
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	lc := lifecycle.New()

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var rt classifier.Runtime
	if cfg.Inference.IsEnabled() {
		rt, err = classifier.NewONNXRuntime(classifier.ONNXOptions{
			Library: cfg.Inference.Library,
			Threads: cfg.Inference.Threads,
			Dir:     cfg.Inference.StagingDir,
		})
		if err != nil {
			logger.Warn("inference runtime unavailable", "library", cfg.Inference.Library, "error", err)
			rt = nil
		}
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Runtime:   rt,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
