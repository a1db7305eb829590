package handlers

import (
	"net/http"
	"strings"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

// GET /{role}/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := views.DashboardData{Filter: models.DashboardFilter{
		Region: strings.TrimSpace(q.Get("region")),
		Type:   q.Get("type"),
		Status: q.Get("status"),
	}}
	stats, err := h.fleet(r).Dashboard(r.Context(), data.Filter)
	if err != nil && h.aborted(w, r, err) {
		return
	}
	data.Stats = stats
	p := h.page(r, "Command Center", "dashboard", data)
	h.Views.Render(w, r, loadFailed(&p, err, "the dashboard"), "dashboard", p)
}

// GET /analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.fleet(r).Analytics(r.Context())
	if err != nil && h.aborted(w, r, err) {
		return
	}
	p := h.page(r, "Analytics", "analytics", views.AnalyticsData{Summary: fleet.Summarize(a)})
	h.Views.Render(w, r, loadFailed(&p, err, "analytics"), "analytics", p)
}

// loadFailed surfaces a failed fetch on the rendered page and returns the
// status to render with.
func loadFailed(p *views.Page, err error, what string) int {
	if err == nil {
		return http.StatusOK
	}
	status, msg := httpserver.ErrorMessage(err, "Could not load "+what+".")
	p.Flash = &models.Flash{Kind: "error", Message: msg}
	return status
}
