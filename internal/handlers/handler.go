package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	"github.com/SoniDharini/Fleet-Flow/internal/backend"
	"github.com/SoniDharini/Fleet-Flow/internal/cache"
	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

// Handler serves the resource views. Every handler runs behind the session
// loader and the route guard, so a session with an active role is present.
type Handler struct {
	Backend   backend.Connector
	Store     session.Store
	Cache     cache.Cache
	CacheTTL  time.Duration
	Views     *views.Renderer
	AlertPoll time.Duration
	Now       func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func sessionOf(r *http.Request) (*models.Session, string) {
	s, _ := httpctx.Session(r.Context())
	sid, _ := httpctx.SessionID(r.Context())
	if s == nil {
		s = &models.Session{}
	}
	return s, sid
}

func (h *Handler) fleet(r *http.Request) backend.Fleet {
	s, _ := sessionOf(r)
	return h.Backend.For(s.Backend)
}

// page builds the layout data and consumes any pending flash.
func (h *Handler) page(r *http.Request, title, section string, data any) views.Page {
	s, sid := sessionOf(r)
	active, has := s.ActiveRole()
	p := views.Page{
		Title:     title,
		Section:   section,
		User:      s.Name,
		Role:      active,
		HasRole:   has,
		Roles:     s.Roles().Roles(),
		Nav:       rbac.VisibleSections(active),
		Can:       rbac.CapabilitiesFor(active),
		AlertPoll: h.AlertPoll,
		Data:      data,
	}
	if s.Flash != nil {
		p.Flash = h.takeFlash(r.Context(), sid, s)
	}
	return p
}

// takeFlash pops the flash from the stored session, leaving every other
// field as the store has it.
func (h *Handler) takeFlash(ctx context.Context, sid string, s *models.Session) *models.Flash {
	f := s.PopFlash()
	if sid == "" {
		return f
	}
	var stored *models.Flash
	_, err := h.Store.Update(ctx, sid, func(cur *models.Session) error {
		stored = cur.PopFlash()
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "session flash update failed", "err", err)
		return f
	}
	return stored
}

// flash queues a message for the next rendered page.
func (h *Handler) flash(r *http.Request, kind, msg string) {
	s, sid := sessionOf(r)
	s.AddFlash(kind, msg)
	if sid == "" {
		return
	}
	_, err := h.Store.Update(r.Context(), sid, func(cur *models.Session) error {
		cur.AddFlash(kind, msg)
		return nil
	})
	if err != nil {
		slog.WarnContext(r.Context(), "session flash update failed", "err", err)
	}
}

// aborted handles the outcomes that end the request early: a caller that
// went away gets nothing written, and an expired backend session ends the
// console session. It reports whether the response is done.
func (h *Handler) aborted(w http.ResponseWriter, r *http.Request, err error) bool {
	if backend.IsCanceled(err) || r.Context().Err() != nil {
		slog.DebugContext(r.Context(), "request canceled", "err", err)
		return true
	}
	if backend.IsKind(err, backend.KindSessionExpired) {
		slog.InfoContext(r.Context(), "backend session expired")
		auth.EndSession(h.Store, w, r)
		if httpserver.WantsHTML(r) {
			http.Redirect(w, r, auth.LoginURL(auth.ReasonExpired), http.StatusSeeOther)
		} else {
			httpserver.JSONError(w, http.StatusUnauthorized, "session_expired", "Your session has expired.")
		}
		return true
	}
	return false
}

// actionFailed reports a failed row action on the next page and sends the
// browser back to it; the refetch shows the unchanged state.
func (h *Handler) actionFailed(w http.ResponseWriter, r *http.Request, err error, fallback, back string) {
	if h.aborted(w, r, err) {
		return
	}
	_, msg := httpserver.ErrorMessage(err, fallback)
	slog.InfoContext(r.Context(), "action rejected", "path", r.URL.Path, "kind", backend.KindOf(err).String())
	h.flash(r, "error", msg)
	httpserver.SeeOther(w, r, back)
}

// formFailed classifies a failed form submission into the status and
// message to re-render with. It reports false when the response is written.
func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) (int, string, bool) {
	var fe formError
	if errors.As(err, &fe) {
		return http.StatusUnprocessableEntity, fe.Error(), true
	}
	if h.aborted(w, r, err) {
		return 0, "", false
	}
	status, msg := httpserver.ErrorMessage(err, fallback)
	return status, msg, true
}

// done finishes a successful mutation: drop stale lookups, flash, redirect.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, res fleet.Resource, msg, back string) {
	h.invalidate(r, res)
	h.flash(r, "success", msg)
	httpserver.SeeOther(w, r, back)
}

func (h *Handler) invalidate(r *http.Request, res fleet.Resource) {
	if h.Cache == nil {
		return
	}
	_, sid := sessionOf(r)
	if err := cache.Invalidate(r.Context(), h.Cache, sid, res); err != nil {
		slog.WarnContext(r.Context(), "cache invalidate failed", "resource", string(res), "err", err)
	}
}

// remember stores a freshly fetched list for form lookups.
func (h *Handler) remember(r *http.Request, res fleet.Resource, v any) {
	if h.Cache == nil || h.CacheTTL <= 0 {
		return
	}
	_, sid := sessionOf(r)
	if err := h.Cache.Set(r.Context(), cache.Key(sid, res), v, h.CacheTTL); err != nil {
		slog.WarnContext(r.Context(), "cache set failed", "resource", string(res), "err", err)
	}
}

func (h *Handler) lookupVehicles(r *http.Request) ([]models.Vehicle, error) {
	_, sid := sessionOf(r)
	return cache.Fetch(r.Context(), h.Cache, cache.Key(sid, fleet.Vehicles), h.CacheTTL, h.fleet(r).Vehicles)
}

func (h *Handler) lookupDrivers(r *http.Request) ([]models.Driver, error) {
	_, sid := sessionOf(r)
	return cache.Fetch(r.Context(), h.Cache, cache.Key(sid, fleet.Drivers), h.CacheTTL, h.fleet(r).Drivers)
}

