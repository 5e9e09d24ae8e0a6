package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/internal/runs"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

// Options configures the session store.
type Options struct {
	// SessionTTL is how long an untouched session is kept. Zero keeps
	// sessions until deleted.
	SessionTTL time.Duration
	// SweepInterval is how often expired sessions are evicted.
	SweepInterval time.Duration
	// AutoLoad loads the catalog's default run into new sessions.
	AutoLoad bool
	// GraphWidth and ChartWidth are the default render widths.
	GraphWidth float64
	ChartWidth float64
}

type session struct {
	mu      sync.Mutex
	state   State
	loadSeq uint64
	cancel  context.CancelFunc
}

type store struct {
	runs    runs.System
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
	handler *Handler

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// New creates the session store backed by the given run system.
func New(rs runs.System, opts Options, logger *slog.Logger) System {
	s := &store{
		runs:     rs,
		opts:     opts,
		logger:   logger.With("system", "dashboard"),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
	s.handler = NewHandler(s, rs, opts, logger)
	return s
}

func (s *store) Handler() *Handler {
	return s.handler
}

// Start runs the expiry sweep until shutdown and cancels in-flight loads
// when the coordinator stops.
func (s *store) Start(lc *lifecycle.Coordinator) error {
	if s.opts.SessionTTL > 0 {
		interval := s.opts.SweepInterval
		if interval <= 0 {
			interval = s.opts.SessionTTL / 2
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-lc.Context().Done():
					return
				case <-ticker.C:
					if n := s.sweep(); n > 0 {
						s.logger.Info("expired sessions evicted", "count", n)
					}
				}
			}
		}()
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, sess := range s.sessions {
			sess.mu.Lock()
			if sess.cancel != nil {
				sess.cancel()
			}
			sess.mu.Unlock()
		}
		s.logger.Info("dashboard sessions closed", "count", len(s.sessions))
	})
	return nil
}

func (s *store) Create(ctx context.Context) (State, error) {
	id := uuid.New()
	st := NewState(id)
	st.Updated = s.now()

	s.mu.Lock()
	s.sessions[id] = &session{state: st}
	s.mu.Unlock()

	s.logger.Info("session created", "id", id)

	if !s.opts.AutoLoad {
		return st, nil
	}

	catalog, err := s.runs.List(ctx)
	if err != nil {
		s.logger.Warn("run catalog unavailable", "id", id, "error", err)
		return st, nil
	}
	// A failed default load is reported through the session status.
	loaded, _ := s.Load(ctx, id, catalog.Default)
	return loaded, nil
}

func (s *store) Find(id uuid.UUID) (State, error) {
	sess, err := s.get(id)
	if err != nil {
		return State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

func (s *store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	if sess.cancel != nil {
		sess.cancel()
	}
	sess.mu.Unlock()

	s.logger.Info("session deleted", "id", id)
	return nil
}

func (s *store) Apply(id uuid.UUID, t Transition) (State, error) {
	sess, err := s.get(id)
	if err != nil {
		return State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.apply(sess, t)
}

func (s *store) Load(ctx context.Context, id uuid.UUID, run string) (State, error) {
	sess, err := s.get(id)
	if err != nil {
		return State{}, err
	}

	sess.mu.Lock()
	st, err := s.apply(sess, BeginLoad(run))
	if err != nil {
		sess.mu.Unlock()
		return st, err
	}
	if sess.cancel != nil {
		sess.cancel()
	}
	sess.loadSeq++
	seq := sess.loadSeq
	loadCtx, cancel := context.WithCancel(ctx)
	sess.cancel = cancel
	sess.mu.Unlock()

	defer cancel()

	data, loadErr := s.runs.Load(loadCtx, run)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.loadSeq != seq {
		s.logger.Info("stale run load discarded", "id", id, "run", run)
		return sess.state, ErrLoadSuperseded
	}
	sess.cancel = nil

	if loadErr != nil {
		s.logger.Warn("run load failed", "id", id, "run", run, "error", loadErr)
		st, _ := s.apply(sess, FailLoad(run))
		return st, loadErr
	}

	st, err = s.apply(sess, ApplyRun(data))
	if err != nil {
		return st, err
	}
	if data.Matrix.InvalidCells > 0 {
		s.logger.Warn("run has malformed confusion cells", "id", id, "run", run, "cells", data.Matrix.InvalidCells)
	}
	s.logger.Info("run loaded", "id", id, "run", run, "classes", data.Matrix.Size(), "epochs", len(data.History.Epochs))
	return st, nil
}

func (s *store) apply(sess *session, t Transition) (State, error) {
	next, err := t(sess.state)
	if err != nil {
		return sess.state, err
	}
	next.Updated = s.now()
	sess.state = next
	return next, nil
}

func (s *store) get(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *store) sweep() int {
	cutoff := s.now().Add(-s.opts.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.state.Updated.Before(cutoff) && !sess.state.Loading
		if expired && sess.cancel != nil {
			sess.cancel()
		}
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
