package middleware

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
)

// EnrichLogger installs a slot that the session loader fills with the user
// id and active role, so log lines written by outer middleware carry them.
func EnrichLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := httpctx.WithLogFields(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
