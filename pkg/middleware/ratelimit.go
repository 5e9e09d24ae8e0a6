package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/wayfinder/pkg/handlers"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

// ErrTooManyRequests is the error body of a rate limited request.
var ErrTooManyRequests = errors.New("too many requests")

// RateLimiter applies a token bucket per client IP. Buckets idle longer than
// the configured TTL are evicted by a periodic sweep once Start is called.
type RateLimiter struct {
	cfg    *RateLimitConfig
	logger *slog.Logger

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter from cfg.
func NewRateLimiter(cfg *RateLimitConfig, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		logger:  logger.With("middleware", "rate_limit"),
		buckets: make(map[string]*bucket),
	}
}

// Middleware rejects requests over the client's budget with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !l.get(ip, time.Now()).Allow() {
			w.Header().Set("Retry-After", "1")
			handlers.RespondError(w, l.logger.With("addr", ip, "uri", r.URL.RequestURI()), http.StatusTooManyRequests, ErrTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start runs the idle bucket sweep until the coordinator context ends.
func (l *RateLimiter) Start(lc *lifecycle.Coordinator) {
	ttl := l.cfg.TTLDuration()
	if !l.cfg.Enabled || ttl <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-lc.Context().Done():
				return
			case now := <-ticker.C:
				if n := l.Sweep(now); n > 0 {
					l.logger.Debug("idle buckets evicted", "count", n)
				}
			}
		}
	}()
}

// Sweep evicts buckets idle longer than the TTL at now and returns how many
// were removed.
func (l *RateLimiter) Sweep(now time.Time) int {
	ttl := l.cfg.TTLDuration()

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > ttl {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
