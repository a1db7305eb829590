package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
)

// RequestID ensures each request has a request ID.
// If trustHeader is true, it uses X-Request-ID when present; otherwise it always generates a new one.
func RequestID(trustHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := ""
			if trustHeader {
				rid = r.Header.Get("X-Request-ID")
			}
			if rid == "" || len(rid) > 128 {
				rid = uuid.NewString()
			}
			ctx := httpctx.WithRequestID(r.Context(), rid)
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
