package middleware

import (
	"net/http"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
)

// OptionalAuth reads the session cookie if present and valid and injects the
// session into context. It never returns 401; on any failure it simply
// passes the request through unauthenticated.
func OptionalAuth(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sid, ok := auth.SessionID(req)
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			s, err := store.Get(req.Context(), sid)
			if err != nil || s.Expired(time.Now()) {
				next.ServeHTTP(w, req)
				return
			}
			next.ServeHTTP(w, req.WithContext(httpctx.WithSession(req.Context(), sid, &s)))
		})
	}
}
