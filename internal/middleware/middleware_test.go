package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/logging"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/security"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

var pass = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

func newSession(t *testing.T, store session.Store, active models.Role, granted ...models.Role) string {
	t.Helper()
	s := models.Session{UserID: 42, Name: "Asha", Granted: models.NewRoleSet(granted...), Expiry: time.Now().Add(time.Hour)}
	if active.Valid() {
		require.NoError(t, s.SetActiveRole(active))
	}
	sid, err := store.Create(context.Background(), s)
	require.NoError(t, err)
	return sid
}

func request(method, path, sid string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	r.Header.Set("Accept", "text/html")
	if sid != "" {
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: sid})
	}
	return r
}

// console builds the authenticated chain used for section routes.
func console(store session.Store, h http.Handler) http.Handler {
	return RequireAuth(store)(RequireActiveRole(Guard(h)))
}

func TestRequestIDGeneratedAndTrusted(t *testing.T) {
	var seen string
	h := RequestID(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpctx.RequestID(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "client-chosen")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.NotEqual(t, "client-chosen", seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))

	h = RequestID(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpctx.RequestID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "client-chosen", seen)
}

func TestRequireAuthRedirectsBrowsersAndRejectsAPI(t *testing.T) {
	store := session.NewMemoryStore()
	h := RequireAuth(store)(pass)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/vehicles", ""))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"unauthorized"`)

	// unknown id clears the cookie
	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/vehicles", "stale"))
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), auth.CookieName+"=;")
}

func TestGuardEndToEnd(t *testing.T) {
	store := session.NewMemoryStore()
	dispatcher := newSession(t, store, models.RoleDispatcher, models.RoleDispatcher)
	manager := newSession(t, store, models.RoleManager, models.RoleManager)
	h := console(store, pass)

	tests := []struct {
		name, method, path, sid string
		status                  int
		location                string
	}{
		{"dispatcher deep-links to analytics", http.MethodGet, "/analytics", dispatcher, http.StatusFound, "/dispatcher/dashboard"},
		{"dispatcher posts to maintenance", http.MethodPost, "/maintenance/new", dispatcher, http.StatusSeeOther, "/dispatcher/dashboard"},
		{"dispatcher opens trips", http.MethodGet, "/trips", dispatcher, http.StatusOK, ""},
		{"dispatcher opens finance dashboard", http.MethodGet, "/finance/dashboard", dispatcher, http.StatusFound, "/dispatcher/dashboard"},
		{"unknown path goes home", http.MethodGet, "/nowhere", dispatcher, http.StatusFound, "/dispatcher/dashboard"},
		{"manager opens analytics", http.MethodGet, "/analytics", manager, http.StatusOK, ""},
		{"manager opens safety dashboard", http.MethodGet, "/safety/dashboard", manager, http.StatusOK, ""},
		{"anonymous", http.MethodGet, "/trips", "", http.StatusFound, "/login"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, request(tc.method, tc.path, tc.sid))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestRequireActiveRole(t *testing.T) {
	store := session.NewMemoryStore()
	h := RequireAuth(store)(RequireActiveRole(pass))

	picking := newSession(t, store, 0, models.RoleDispatcher, models.RoleFinance)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/trips", picking))
	assert.Equal(t, RolePickerPath, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, RolePickerPath, picking))
	assert.Equal(t, http.StatusOK, w.Code)

	none := newSession(t, store, 0)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/trips", none))
	assert.Equal(t, "/login", w.Header().Get("Location"))

	r := request(http.MethodGet, "/alerts", picking)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "no_active_role")
}

func TestRequireRoleManagerOnly(t *testing.T) {
	store := session.NewMemoryStore()
	h := RequireAuth(store)(RequireRole(models.RoleManager)(pass))

	finance := newSession(t, store, models.RoleFinance, models.RoleFinance)
	r := request(http.MethodGet, "/admin/sessions", finance)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	manager := newSession(t, store, models.RoleManager, models.RoleManager)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/admin/sessions", manager))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHomeServesUnknownPaths(t *testing.T) {
	store := session.NewMemoryStore()
	h := OptionalAuth(store)(http.HandlerFunc(Home))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/", ""))
	assert.Equal(t, "/login", w.Header().Get("Location"))

	sid := newSession(t, store, models.RoleSafety, models.RoleSafety)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/bogus", sid))
	assert.Equal(t, "/safety/dashboard", w.Header().Get("Location"))

	picking := newSession(t, store, 0, models.RoleSafety, models.RoleFinance)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/", picking))
	assert.Equal(t, RolePickerPath, w.Header().Get("Location"))
}

func TestDenylistBlocksUser(t *testing.T) {
	store := session.NewMemoryStore()
	sid := newSession(t, store, models.RoleManager, models.RoleManager)
	security.Load([]int64{42})
	t.Cleanup(func() { security.Load(nil) })

	w := httptest.NewRecorder()
	RequireAuth(store)(Denylist(pass)).ServeHTTP(w, request(http.MethodGet, "/vehicles", sid))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimiterPerPrincipal(t *testing.T) {
	l := NewRateLimiter(60, 2, time.Minute)
	now := time.Now()
	l.now = func() time.Time { return now }
	h := l.Middleware(pass)

	hit := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = addr
		r.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1236"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1234"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1234"))

	assert.Equal(t, 2, l.Sweep(now.Add(2*time.Minute)))
}

func TestSubmitOnceReplaysRedirect(t *testing.T) {
	store := session.NewMemoryStore()
	sid := newSession(t, store, models.RoleManager, models.RoleManager)
	tokens := NewSubmitTokens(time.Minute)

	var calls atomic.Int32
	r := chi.NewRouter()
	r.Use(RequireAuth(store), SubmitOnce(tokens))
	r.Post("/vehicles/new", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Redirect(w, r, "/vehicles", http.StatusSeeOther)
	})
	r.Post("/vehicles/{id}/update", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	post := func(path, token string) *httptest.ResponseRecorder {
		form := url.Values{views.SubmitField: {token}, "name": {"Van-05"}}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: sid})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/vehicles/new", "tok-1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = post("/vehicles/new", "tok-1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/vehicles", w.Header().Get("Location"))
	assert.Equal(t, int32(1), calls.Load())

	// a failed submission can be retried with the same token
	post("/vehicles/9/update", "tok-2")
	post("/vehicles/9/update", "tok-2")
	assert.Equal(t, int32(3), calls.Load())

	assert.Equal(t, 1, tokens.Sweep(time.Now().Add(2*time.Minute)))
}

func TestRequestLoggerSeesPrincipal(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", false))
	t.Cleanup(func() { slog.SetDefault(prev) })

	store := session.NewMemoryStore()
	sid := newSession(t, store, models.RoleFinance, models.RoleFinance)
	h := RequestID(false)(EnrichLogger(SlogRequestLogger(RequireAuth(store)(pass))))
	h.ServeHTTP(httptest.NewRecorder(), request(http.MethodGet, "/fuel", sid))

	line := buf.String()
	assert.Contains(t, line, `msg="request" method=GET url=/fuel status=200`)
	assert.Contains(t, line, "user_id=42")
	assert.Contains(t, line, "active_role=finance")
	assert.Contains(t, line, "request_id=")
}
