package middleware

import (
	"net/http"
	"sync"
	"time"

	"docportal/pkg/logger"
)

// EmailExtractor pulls the caller identity used for rate limiting. The public
// booking endpoint is unauthenticated, so the key comes from the request body
// surrogate header or from the verified identity when present.
type EmailExtractor func(r *http.Request) string

type EmailRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor EmailExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewEmailRateLimiter(limit int, window time.Duration, extractor EmailExtractor, log *logger.Logger) *EmailRateLimiter {
	limiter := &EmailRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *EmailRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for email, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, email)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *EmailRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *EmailRateLimiter) Allow(email string) bool {
	if email == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[email]
	rl.mu.RUnlock()

	valid := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		return false
	}

	valid = append(valid, now)

	rl.mu.Lock()
	rl.requests[email] = valid
	rl.mu.Unlock()

	return true
}

func EmailRateLimit(limiter *EmailRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := limiter.extractor(r)

			if email == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(email) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", requestIDFrom(r.Context()),
					"email", email,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultEmailExtractor prefers the verified identity and falls back to the
// X-Patient-Email hint that the booking form sends.
func DefaultEmailExtractor(r *http.Request) string {
	if email, ok := IdentityFromContext(r.Context()); ok {
		return email
	}
	return r.Header.Get("X-Patient-Email")
}
