// internal/middleware/require_role.go
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
)

// RequireRole admits the listed roles (and manager) for routes outside the
// section table, such as the admin API.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := models.NewRoleSet(allowed...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			active, ok := httpctx.ActiveRole(req.Context())
			if !ok {
				reject(w, req, http.StatusUnauthorized, "unauthorized", "Sign in to continue", rbac.LoginPath)
				return
			}
			if !set.Allows(active) {
				reject(w, req, http.StatusForbidden, "forbidden", "forbidden", active.DashboardPath())
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// Guard applies the route guard to the request path, for reads and writes
// alike. A denied request is redirected, never shown an error page.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		active, ok := httpctx.ActiveRole(req.Context())
		d := rbac.Guard(active, ok, req.URL.Path)
		if d.Allowed() {
			next.ServeHTTP(w, req)
			return
		}
		slog.DebugContext(req.Context(), "guard redirect", "path", req.URL.Path, "to", d.Location)
		redirect(w, req, d.Location)
	})
}

// Home redirects to where the caller belongs: the active role's dashboard,
// the role picker, or the login page. It serves unknown paths.
func Home(w http.ResponseWriter, req *http.Request) {
	s, ok := httpctx.Session(req.Context())
	if !ok {
		redirect(w, req, rbac.LoginPath)
		return
	}
	active, has := s.ActiveRole()
	if !has && !s.Granted.Empty() {
		redirect(w, req, RolePickerPath)
		return
	}
	redirect(w, req, rbac.Home(active, has).Location)
}
