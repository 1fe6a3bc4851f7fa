package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// maxTrackedClients bounds the per-client bucket map.
	maxTrackedClients = 10_000
	// bucketIdleTimeout is how long a client must stay silent before its
	// bucket may be evicted. Any bucket idle that long has refilled.
	bucketIdleTimeout = 3 * time.Minute
)

type rateLimiter interface {
	Allow(client string) bool
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address. When the map is
// full, idle buckets are evicted first, then the least recently seen one, so
// active clients never get a fresh bucket because someone else showed up.
type clientLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	maxClients  int
	idleTimeout time.Duration
	now         func() time.Time
	buckets     map[string]*clientBucket
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) rateLimiter {
	return newClientLimiter(ratePerSecond, burst, maxTrackedClients, time.Now)
}

func newClientLimiter(ratePerSecond float64, burst, maxClients int, now func() time.Time) *clientLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	if maxClients <= 0 {
		maxClients = maxTrackedClients
	}

	return &clientLimiter{
		limit:       rate.Limit(ratePerSecond),
		burst:       burst,
		maxClients:  maxClients,
		idleTimeout: bucketIdleTimeout,
		now:         now,
		buckets:     make(map[string]*clientBucket),
	}
}

func (l *clientLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[client]
	if !ok {
		if len(l.buckets) >= l.maxClients {
			l.evictLocked(now)
		}
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[client] = bucket
	}
	bucket.lastSeen = now

	return bucket.limiter.AllowN(now, 1)
}

func (l *clientLimiter) evictLocked(now time.Time) {
	var (
		oldestKey  string
		oldestSeen time.Time
		found      bool
	)
	for key, bucket := range l.buckets {
		if now.Sub(bucket.lastSeen) >= l.idleTimeout {
			delete(l.buckets, key)
			continue
		}
		if !found || bucket.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen, found = key, bucket.lastSeen, true
		}
	}
	if found && len(l.buckets) >= l.maxClients {
		delete(l.buckets, oldestKey)
	}
}

// clientKey identifies the caller for rate limiting. X-Forwarded-For is
// client controlled, so it is only consulted when trustForwardedFor is set.
func clientKey(r *http.Request, trustForwardedFor bool) string {
	if trustForwardedFor {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rateLimitMiddleware(limiter rateLimiter, trustForwardedFor bool, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter.Allow(clientKey(r, trustForwardedFor)) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}
