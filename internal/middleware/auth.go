package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
)

// RequireAuth loads the console session named by the session cookie and
// injects it into the context. Browsers without a live session are sent to
// the login page; API clients get 401.
func RequireAuth(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sid, ok := auth.SessionID(req)
			if !ok {
				reject(w, req, http.StatusUnauthorized, "unauthorized", "Sign in to continue", rbac.LoginPath)
				return
			}
			s, err := store.Get(req.Context(), sid)
			if err == nil && s.Expired(time.Now()) {
				err = session.ErrNotFound
			}
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					slog.WarnContext(req.Context(), "session load failed", "err", err)
				}
				auth.ClearSessionCookie(w)
				reject(w, req, http.StatusUnauthorized, "unauthorized", "Sign in to continue", rbac.LoginPath)
				return
			}

			ctx := httpctx.WithSession(req.Context(), sid, &s)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
