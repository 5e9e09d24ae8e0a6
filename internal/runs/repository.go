package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/pkg/storage"
)

// Options locate run artifacts in the artifact store.
type Options struct {
	// Prefix is the key prefix under which runs.json and run directories live.
	Prefix string
	// Manifest is the run manifest file name.
	Manifest string
	// DefaultRun is used when the manifest is unusable.
	DefaultRun string
}

type repo struct {
	store  storage.System
	opts   Options
	logger *slog.Logger
}

// New creates a run system reading from store.
func New(store storage.System, opts Options, logger *slog.Logger) System {
	if opts.Manifest == "" {
		opts.Manifest = "runs.json"
	}
	return &repo{
		store:  store,
		opts:   opts,
		logger: logger.With("system", "runs"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context) (*Catalog, error) {
	key := storage.Join(r.opts.Prefix, r.opts.Manifest)

	names, err := r.readManifest(ctx, key)
	if err != nil || len(names) == 0 {
		if err != nil {
			r.logger.Warn("run manifest unusable, using default run", "key", key, "error", err)
		}
		return &Catalog{
			Runs:     []string{r.opts.DefaultRun},
			Default:  r.opts.DefaultRun,
			Fallback: true,
		}, nil
	}

	return &Catalog{Runs: names, Default: names[0]}, nil
}

// readManifest returns no names and no error when the manifest is absent.
func (r *repo) readManifest(ctx context.Context, key string) ([]string, error) {
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger.Info("no run manifest, using default run", "key", key)
		return nil, nil
	}

	data, err := storage.ReadAll(ctx, r.store, key)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse run manifest: %w", err)
	}

	valid := make([]string, 0, len(names))
	for _, name := range names {
		if ValidateName(name) != nil {
			r.logger.Warn("skipping invalid run name", "run", name)
			continue
		}
		valid = append(valid, name)
	}
	return valid, nil
}

func (r *repo) History(ctx context.Context, name string) (*History, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return r.loadHistory(ctx, name)
}

func (r *repo) Load(ctx context.Context, name string) (*Run, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var (
		history *History
		matrix  *confusion.Matrix
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := r.loadHistory(gctx, name)
		history = h
		return err
	})
	g.Go(func() error {
		m, err := r.loadMatrix(gctx, name)
		matrix = m
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if matrix.InvalidCells > 0 {
		r.logger.Warn("confusion matrix had malformed cells", "run", name, "count", matrix.InvalidCells)
	}
	r.logger.Info("run loaded", "run", name, "classes", matrix.Size(), "epochs", len(history.Epochs))

	return &Run{
		Name:    name,
		History: history,
		Matrix:  matrix,
		Records: confusion.BuildRecords(matrix),
	}, nil
}

func (r *repo) loadHistory(ctx context.Context, name string) (*History, error) {
	rc, err := r.open(ctx, name, HistoryFile)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	h, err := ParseHistory(rc)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return h, nil
}

func (r *repo) loadMatrix(ctx context.Context, name string) (*confusion.Matrix, error) {
	rc, err := r.open(ctx, name, ConfusionFile)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := confusion.ParseMatrix(rc)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	return m, nil
}

func (r *repo) open(ctx context.Context, name, file string) (io.ReadCloser, error) {
	rc, err := r.store.Download(ctx, storage.Join(r.opts.Prefix, name, file))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrRunNotFound, name, file)
		}
		return nil, fmt.Errorf("fetch %s/%s: %w", name, file, err)
	}
	return rc, nil
}
