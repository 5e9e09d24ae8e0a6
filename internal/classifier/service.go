package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
	"github.com/JaimeStill/wayfinder/pkg/middleware"
	"github.com/JaimeStill/wayfinder/pkg/storage"
)

// Status messages shown while the catalog is not usable.
const (
	StatusLoading     = "Loading models..."
	StatusReady       = "Models ready."
	StatusNoRuntime   = "Inference runtime unavailable."
	statusLoadFailure = "Model load failed: %v"
	statusStopped     = "Models unloaded."
)

// Options configures model acquisition and the classify endpoints.
type Options struct {
	// Prefix is the artifact key prefix of the catalog and its models.
	Prefix string
	// Manifest is the catalog file name under Prefix.
	Manifest string
	// LoadLimit bounds concurrent artifact fetches at startup.
	LoadLimit int
	// GroupLimit bounds concurrent group model inferences per request.
	GroupLimit int
	// MaxUploadSize is the largest accepted multipart body in bytes.
	MaxUploadSize int64
	// MaxPixels bounds the decoded width×height of an upload.
	MaxPixels int
	// RateLimit throttles the classify endpoints per client. Nil disables it.
	RateLimit *middleware.RateLimitConfig
}

func (o *Options) defaults() {
	if o.Prefix == "" {
		o.Prefix = "models"
	}
	if o.Manifest == "" {
		o.Manifest = "manifest.yaml"
	}
	if o.LoadLimit <= 0 {
		o.LoadLimit = 4
	}
	if o.GroupLimit <= 0 {
		o.GroupLimit = 4
	}
	if o.MaxUploadSize <= 0 {
		o.MaxUploadSize = 10 << 20
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
}

type models struct {
	catalog *Catalog
	base    *runner
	coarse  *runner
	groups  map[string]*runner
}

func (m *models) all() []*runner {
	out := []*runner{m.base}
	if m.coarse != nil {
		out = append(out, m.coarse)
	}
	for _, key := range m.catalog.GroupKeys() {
		out = append(out, m.groups[key])
	}
	return out
}

type service struct {
	store   storage.System
	runtime Runtime
	opts    Options
	logger  *slog.Logger
	handler *Handler

	mu      sync.RWMutex
	status  string
	loaded  *models
	stopped bool
}

// New creates the classifier. A nil runtime leaves the classifier
// permanently not ready.
func New(store storage.System, rt Runtime, opts Options, logger *slog.Logger) System {
	opts.defaults()
	s := &service{
		store:   store,
		runtime: rt,
		opts:    opts,
		logger:  logger.With("system", "classifier"),
		status:  StatusLoading,
	}
	if rt == nil {
		s.status = StatusNoRuntime
	}
	s.handler = NewHandler(s, opts, logger)
	return s
}

func (s *service) Handler() *Handler {
	return s.handler
}

func (s *service) Start(lc *lifecycle.Coordinator) error {
	lc.Check("classifier", s)
	if s.handler.limiter != nil {
		s.handler.limiter.Start(lc)
	}

	if s.runtime == nil {
		s.logger.Warn("no inference runtime, classify endpoints disabled")
		return nil
	}

	lc.OnStartup(func() {
		m, err := s.load(lc.Context())
		if err != nil {
			s.logger.Error("model load failed", "error", err)
			s.setStatus(fmt.Sprintf(statusLoadFailure, err))
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped {
			closeModels(m, s.logger)
			return
		}
		s.loaded = m
		s.status = StatusReady
		s.logger.Info("models ready", "models", len(m.all()), "size", m.catalog.Size)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		s.mu.Lock()
		s.stopped = true
		m := s.loaded
		s.loaded = nil
		s.status = statusStopped
		s.mu.Unlock()

		if m != nil {
			closeModels(m, s.logger)
		}
		if err := s.runtime.Close(); err != nil {
			s.logger.Error("destroy inference runtime failed", "error", err)
		}
	})

	return nil
}

func (s *service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded != nil
}

func (s *service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{Ready: s.loaded != nil, Message: s.status}
	if m := s.loaded; m != nil {
		st.Size = m.catalog.Size
		for _, r := range m.all() {
			st.Models = append(st.Models, r.name)
		}
		st.Groups = m.catalog.GroupKeys()
	}
	return st
}

func (s *service) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

func (s *service) acquire() (*models, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, s.status)
	}
	return s.loaded, nil
}

func (s *service) Classify(ctx context.Context, img image.Image) (*Result, error) {
	m, err := s.acquire()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input := Letterbox(img, m.catalog.Size, m.catalog.Normalization())
	preds, err := m.base.rank(input)
	if err != nil {
		return nil, err
	}
	return &Result{Predictions: preds}, nil
}

func (s *service) Hierarchical(ctx context.Context, img image.Image, groups bool) (*HierarchicalResult, error) {
	m, err := s.acquire()
	if err != nil {
		return nil, err
	}
	if m.coarse == nil {
		return nil, ErrNoCoarseModel
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input := Letterbox(img, m.catalog.Size, m.catalog.Normalization())
	result := &HierarchicalResult{Groups: groups}

	var g errgroup.Group
	g.Go(func() error {
		preds, err := m.base.rank(input)
		result.Base = preds
		return err
	})
	g.Go(func() error {
		preds, err := m.coarse.rank(input)
		result.Coarse = preds
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !groups || len(m.groups) == 0 {
		return result, nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.GroupLimit)
	for i, parent := range result.Coarse {
		r, ok := m.groups[parent.Name]
		if !ok {
			continue
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			children, err := r.rank(input)
			if err != nil {
				return err
			}
			result.Coarse[i] = Refine(parent, children)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// load reads the catalog and opens every model it names. On failure any
// model already opened is closed.
func (s *service) load(ctx context.Context) (*models, error) {
	data, err := storage.ReadAll(ctx, s.store, storage.Join(s.opts.Prefix, s.opts.Manifest))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := ParseCatalog(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	m := &models{catalog: cat, groups: make(map[string]*runner, len(cat.Groups))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.LoadLimit)

	open := func(name string, spec ModelSpec, assign func(*runner)) {
		g.Go(func() error {
			r, err := s.open(gctx, cat, name, spec)
			if err != nil {
				return err
			}
			mu.Lock()
			assign(r)
			mu.Unlock()
			return nil
		})
	}

	open("base", cat.Base, func(r *runner) { m.base = r })
	if cat.Coarse != nil {
		open("coarse", *cat.Coarse, func(r *runner) { m.coarse = r })
	}
	for key, spec := range cat.Groups {
		open(key, spec, func(r *runner) { m.groups[key] = r })
	}

	if err := g.Wait(); err != nil {
		closeModels(m, s.logger)
		return nil, err
	}
	return m, nil
}

func (s *service) open(ctx context.Context, cat *Catalog, name string, spec ModelSpec) (*runner, error) {
	var classes []string
	if spec.Classes != "" {
		data, err := storage.ReadAll(ctx, s.store, storage.Join(s.opts.Prefix, spec.Classes))
		if err != nil {
			return nil, fmt.Errorf("read classes for %s: %w", name, err)
		}
		if classes, err = ParseClassManifest(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	shape := Shape{
		Size:    cat.Size,
		Outputs: spec.Outputs,
		Input:   cat.Input,
		Output:  cat.Output,
	}
	if shape.Outputs == 0 {
		shape.Outputs = len(classes)
	}
	if shape.Outputs == 0 {
		return nil, fmt.Errorf("%w: %s has no classes or outputs", ErrInvalidCatalog, name)
	}

	artifact, err := storage.ReadAll(ctx, s.store, storage.Join(s.opts.Prefix, spec.Model))
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", name, err)
	}

	model, err := s.runtime.Open(spec.Model, artifact, shape)
	if err != nil {
		return nil, err
	}

	s.logger.Info("model loaded", "model", name, "artifact", spec.Model, "classes", len(classes), "outputs", shape.Outputs)
	return newRunner(name, model, classes, shape), nil
}

func closeModels(m *models, logger *slog.Logger) {
	var errs []error
	release := func(r *runner) {
		if r == nil {
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.model.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
		}
	}
	release(m.base)
	release(m.coarse)
	for _, r := range m.groups {
		release(r)
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error("close models failed", "error", err)
	}
}
