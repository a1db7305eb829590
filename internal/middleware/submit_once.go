package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

type submission struct {
	done     bool
	status   int
	location string
	at       time.Time
}

// SubmitTokens remembers which one-time form tokens have been used.
type SubmitTokens struct {
	mu      sync.Mutex
	entries map[string]*submission
	ttl     time.Duration
	now     func() time.Time
}

func NewSubmitTokens(ttl time.Duration) *SubmitTokens {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SubmitTokens{entries: make(map[string]*submission), ttl: ttl, now: time.Now}
}

// begin claims key. It returns the earlier submission when key was already
// claimed within the TTL.
func (s *SubmitTokens) begin(key string) (submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Sub(e.at) < s.ttl {
		return *e, true
	}
	s.entries[key] = &submission{at: now}
	return submission{}, false
}

func (s *SubmitTokens) finish(key string, status int, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.done, e.status, e.location = true, status, location
	}
}

// release forgets key so a failed submission can be retried with it.
func (s *SubmitTokens) release(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *SubmitTokens) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		if now.Sub(e.at) >= s.ttl {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

func (s *SubmitTokens) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}

type redirectCapture struct {
	http.ResponseWriter
	status int
}

func (rc *redirectCapture) WriteHeader(code int) {
	if rc.status == 0 {
		rc.status = code
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *redirectCapture) Write(b []byte) (int, error) {
	if rc.status == 0 {
		rc.status = http.StatusOK
	}
	return rc.ResponseWriter.Write(b)
}

// SubmitOnce processes each form submission token once per session. A
// replayed token repeats the original redirect without reaching the handler;
// a token still in flight sends the browser back to the section page.
// Submissions that did not end in a redirect release their token.
func SubmitOnce(tokens *SubmitTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			token := r.PostFormValue(views.SubmitField)
			if token == "" {
				token = r.Header.Get("Idempotency-Key")
			}
			if token == "" {
				// No token, process normally
				next.ServeHTTP(w, r)
				return
			}
			sid, _ := httpctx.SessionID(r.Context())
			key := sid + ":" + token

			if prev, seen := tokens.begin(key); seen {
				to := prev.location
				if !prev.done || to == "" {
					to = sectionPath(r)
				}
				http.Redirect(w, r, to, http.StatusSeeOther)
				return
			}

			rc := &redirectCapture{ResponseWriter: w}
			next.ServeHTTP(rc, r)

			if rc.status >= 300 && rc.status < 400 {
				tokens.finish(key, rc.status, w.Header().Get("Location"))
				return
			}
			tokens.release(key)
		})
	}
}

func sectionPath(r *http.Request) string {
	if s, ok := rbac.Resolve(r.URL.Path); ok && s.Path != "" {
		return s.Path
	}
	active, ok := httpctx.ActiveRole(r.Context())
	return rbac.Home(active, ok).Location
}
