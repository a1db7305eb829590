package middleware

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/security"
)

// Denylist blocks requests for users marked as denied.
func Denylist(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := httpctx.UserID(r.Context()); ok && security.IsUserDenied(uid) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
