package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
)

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user (or rotated IP hash).
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewRateLimiter allows rpm requests per minute with the given burst. Idle
// buckets are evicted after ttl by Sweep.
func NewRateLimiter(rpm, burst int, ttl time.Duration) *RateLimiter {
	if rpm <= 0 {
		rpm = 1
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (l *RateLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()
	return v.lim.AllowN(now, 1)
}

// Sweep evicts buckets idle for longer than ttl and returns how many.
func (l *RateLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, k)
			n++
		}
	}
	return n
}

func (l *RateLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.Sweep(now)
			}
		}
	}()
}

// Middleware limits requests per principal.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ""
		if uid, ok := httpctx.UserID(r.Context()); ok {
			key = "u:" + strconv.FormatInt(uid, 10)
		} else {
			key = "ip:" + ipKey(r)
		}
		if !l.allow(key) {
			w.Header().Set("Retry-After", "1")
			if httpserver.WantsHTML(r) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			httpserver.JSONError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Rotating IP hasher (daily rotation) to avoid storing raw IPs.
var (
	rotMu   sync.Mutex
	rotSalt []byte
	rotDay  int
)

func currentSalt() []byte {
	d := time.Now().YearDay()
	rotMu.Lock()
	defer rotMu.Unlock()
	if d != rotDay || rotSalt == nil {
		rotDay = d
		s := sha256.Sum256([]byte(time.Now().Format(time.RFC3339Nano)))
		rotSalt = s[:]
	}
	return rotSalt
}

func ipKey(r *http.Request) string {
	host := r.RemoteAddr
	if ip, ok := auth.ClientIP(r); ok {
		host = ip.String()
	}
	h := sha256.New()
	h.Write(currentSalt())
	h.Write([]byte(host))
	sum := h.Sum(nil)
	// truncate for readability
	return hex.EncodeToString(sum[:8])
}
