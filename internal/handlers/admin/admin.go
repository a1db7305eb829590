package admin

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
)

type sessionItem struct {
	ID         string         `json:"id"`
	UserID     int64          `json:"user_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Roles      models.RoleSet `json:"roles"`
	ActiveRole *models.Role   `json:"active_role,omitempty"`
	Current    bool           `json:"current"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// ListSessionsHandler returns JSON of live console sessions, newest first.
// Access: manager only (enforced by the route).
func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		entries, err := store.List(req.Context())
		if err != nil {
			slog.ErrorContext(req.Context(), "list sessions failed", "err", err)
			httpserver.JSONError(w, http.StatusInternalServerError, "session_list_failed", "Could not list sessions.")
			return
		}
		current, _ := httpctx.SessionID(req.Context())
		out := make([]sessionItem, 0, len(entries))
		for _, e := range entries {
			it := sessionItem{
				ID:        shortID(e.ID),
				UserID:    e.Session.UserID,
				Name:      e.Session.Name,
				Email:     e.Session.Email,
				Roles:     e.Session.Granted,
				Current:   e.ID == current,
				CreatedAt: e.Session.Created,
				ExpiresAt: e.Session.Expiry,
			}
			if r, ok := e.Session.ActiveRole(); ok {
				it.ActiveRole = &r
			}
			out = append(out, it)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		httpserver.JSON(w, http.StatusOK, out)
	}
}

// RevokeSessionHandler ends another console session. The id is the short
// form shown by the listing.
func RevokeSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		short := chi.URLParam(req, "id")
		entries, err := store.List(req.Context())
		if err != nil {
			slog.ErrorContext(req.Context(), "list sessions failed", "err", err)
			httpserver.JSONError(w, http.StatusInternalServerError, "session_list_failed", "Could not list sessions.")
			return
		}
		current, _ := httpctx.SessionID(req.Context())
		for _, e := range entries {
			if shortID(e.ID) != short {
				continue
			}
			if e.ID == current {
				httpserver.JSONError(w, http.StatusConflict, "current_session", "Use sign out to end your own session.")
				return
			}
			if err := store.Delete(req.Context(), e.ID); err != nil {
				slog.ErrorContext(req.Context(), "revoke session failed", "err", err)
				httpserver.JSONError(w, http.StatusInternalServerError, "session_revoke_failed", "Could not revoke the session.")
				return
			}
			slog.InfoContext(req.Context(), "session revoked", "target_user_id", e.Session.UserID)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httpserver.JSONError(w, http.StatusNotFound, "not_found", "No such session.")
	}
}

// shortID is the id prefix the admin API exposes in place of the session id.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
