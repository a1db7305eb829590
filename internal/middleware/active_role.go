package middleware

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
)

// RolePickerPath is where a session without an active role chooses one.
const RolePickerPath = "/login/role"

// RequireActiveRole blocks sessions that have not chosen a role yet. The role
// picker, logout and the profile endpoint stay reachable.
func RequireActiveRole(next http.Handler) http.Handler {
	// Allowed paths while no role is active
	allowed := map[string]struct{}{
		RolePickerPath: {},
		"/logout":      {},
		"/auth/me":     {},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s, ok := httpctx.Session(req.Context())
		if !ok {
			reject(w, req, http.StatusUnauthorized, "unauthorized", "Sign in to continue", rbac.LoginPath)
			return
		}
		if _, ok := s.ActiveRole(); ok {
			next.ServeHTTP(w, req)
			return
		}
		if _, ok := allowed[req.URL.Path]; ok {
			next.ServeHTTP(w, req)
			return
		}
		to := RolePickerPath
		if s.Granted.Empty() {
			to = rbac.LoginPath
		}
		reject(w, req, http.StatusForbidden, "no_active_role", "Choose a role first", to)
	})
}
