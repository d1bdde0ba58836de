/*
Package limiter provides per-origin admission control for inbound requests.

It implements a fixed-window counter: each origin key owns a bucket counting
requests in the current window, the bucket resets when the window elapses, and
rejections carry the remaining window time as a retry hint. A background
goroutine periodically removes expired buckets so abandoned origins do not
grow memory without bound.
*/
package limiter

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"exnebula/internal/pkg/errs"
	"exnebula/internal/pkg/logx"
	"exnebula/internal/pkg/resp"
)

const (
	// DefaultLimit is the default number of requests admitted per window per origin.
	DefaultLimit = 100

	// DefaultWindow is the default admission window duration.
	DefaultWindow = 15 * time.Minute
)

// Decision is the outcome of a single admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the number of requests left in the current window.
	Remaining int

	// RetryAfter is the time until the window resets. Positive on every rejection.
	RetryAfter time.Duration
}

// bucket tracks one origin's count within its current window.
// Its mutex makes increment-and-compare atomic per origin: two concurrent
// admissions at the limit boundary can never both slip past the limit.
type bucket struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
	evicted     bool
}

// WindowLimiter is a fixed-window admission controller keyed by origin.
type WindowLimiter struct {
	// mu protects the buckets map; each bucket carries its own lock so
	// independent origins never serialize against each other.
	mu sync.RWMutex

	buckets map[string]*bucket

	limit  int
	window time.Duration
}

// NewWindowLimiter creates a WindowLimiter admitting limit requests per window
// per origin and starts the background bucket cleanup.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &WindowLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}

	go l.cleanupExpired()

	return l
}

// getBucket retrieves or creates the bucket for the given origin key,
// using double-checked locking for concurrent-safe creation.
func (l *WindowLimiter) getBucket(key string) *bucket {
	l.mu.RLock()
	b, exists := l.buckets[key]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		b, exists = l.buckets[key]
		if !exists {
			b = &bucket{}
			l.buckets[key] = b
		}
		l.mu.Unlock()
	}

	return b
}

// Admit decides whether the origin may make another request at time now.
// When now falls outside the bucket's window the bucket resets before
// evaluation, so the first request of a fresh window is always admitted.
func (l *WindowLimiter) Admit(key string, now time.Time) Decision {
	for {
		b := l.getBucket(key)

		b.mu.Lock()
		if b.evicted {
			// Lost a race with cleanup; the map holds a fresh bucket now.
			b.mu.Unlock()
			continue
		}

		if now.Sub(b.windowStart) >= l.window {
			b.windowStart = now
			b.count = 0
		}

		if b.count < l.limit {
			b.count++
			d := Decision{Allowed: true, Remaining: l.limit - b.count}
			b.mu.Unlock()
			return d
		}

		d := Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: b.windowStart.Add(l.window).Sub(now),
		}
		b.mu.Unlock()
		return d
	}
}

// cleanupExpired periodically drops buckets whose window has fully elapsed.
func (l *WindowLimiter) cleanupExpired() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		removed := 0

		l.mu.Lock()
		for key, b := range l.buckets {
			b.mu.Lock()
			if now.Sub(b.windowStart) >= l.window {
				b.evicted = true
				delete(l.buckets, key)
				removed++
			}
			b.mu.Unlock()
		}
		remaining := len(l.buckets)
		l.mu.Unlock()

		logx.Info("Admission bucket cleanup finished", "removed", removed, "active_origins", remaining)
	}
}

// originKey derives the admission key for a request from its client address.
func originKey(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		ip = "unknown_ip"
	}

	return ip
}

// Middleware applies admission control to inbound HTTP requests.
// Rejected requests receive a 429 with a Retry-After header and a retryAfter
// hint (seconds) in the response body.
func (l *WindowLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := l.Admit(originKey(r), time.Now())

		if !decision.Allowed {
			retryAfterSecs := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfterSecs < 1 {
				retryAfterSecs = 1
			}

			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))

			rateErr := errs.NewError(errs.ErrRateLimited).WithMeta("retryAfter", retryAfterSecs)
			resp.RespondError(w, r, rateErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}
