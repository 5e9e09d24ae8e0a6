package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

type local struct {
	root   *os.Root
	path   string
	logger *slog.Logger
}

func newLocal(cfg *Config, logger *slog.Logger) (System, error) {
	root, err := os.OpenRoot(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("open artifact root %s: %w", cfg.Root, err)
	}
	return &local{root: root, path: cfg.Root, logger: logger}, nil
}

func (l *local) Start(lc *lifecycle.Coordinator) error {
	l.logger.Info("artifact store ready", "root", l.path)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := l.root.Close(); err != nil {
			l.logger.Error("close artifact root failed", "error", err)
		}
	})

	return nil
}

func (l *local) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.root.Open(filepath.FromSlash(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open artifact %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat artifact %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return f, nil
}

func (l *local) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	info, err := l.root.Stat(filepath.FromSlash(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat artifact %s: %w", key, err)
	}
	return !info.IsDir(), nil
}
