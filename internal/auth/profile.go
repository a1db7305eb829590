package auth

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/backend"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
)

// MeHandler returns the signed-in user with the console's view of it.
// GET /auth/me
func MeHandler(d Deps) http.HandlerFunc {
	type resp struct {
		ID         int64          `json:"id"`
		Name       string         `json:"name"`
		Email      string         `json:"email"`
		Roles      models.RoleSet `json:"roles"`
		ActiveRole *models.Role   `json:"active_role"`
		Nav        []rbac.NavItem `json:"nav"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := httpctx.Session(r.Context())
		if !ok {
			httpserver.JSONError(w, http.StatusUnauthorized, "unauthorized", "Sign in to continue")
			return
		}
		u, err := d.Backend.Me(r.Context(), s.Backend)
		if err != nil {
			if backend.IsCanceled(err) {
				return
			}
			if backend.IsKind(err, backend.KindSessionExpired) {
				EndSession(d.Store, w, r)
			}
			status, msg := httpserver.ErrorMessage(err, "Could not load profile")
			httpserver.JSONError(w, status, backend.KindOf(err).String(), msg)
			return
		}

		out := resp{ID: u.ID, Name: u.Name, Email: u.Email, Roles: s.Roles()}
		if out.Email == "" {
			out.Email = s.Email
		}
		if out.Name == "" {
			out.Name = s.Name
		}
		if active, ok := s.ActiveRole(); ok {
			out.ActiveRole = &active
			out.Nav = rbac.VisibleSections(active)
		}
		httpserver.JSON(w, http.StatusOK, out)
	}
}
