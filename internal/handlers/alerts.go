package handlers

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/cache"
	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// GET /alerts
//
// Polled by the layout. Alerts are cached per session for one poll interval.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	_, sid := sessionOf(r)
	alerts, err := cache.Fetch(r.Context(), h.Cache, cache.Key(sid, fleet.Alerts), h.AlertPoll, h.fleet(r).Alerts)
	if err != nil {
		if h.aborted(w, r, err) {
			return
		}
		status, msg := httpserver.ErrorMessage(err, "Could not load alerts.")
		httpserver.JSONError(w, status, "alerts_unavailable", msg)
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	httpserver.JSON(w, http.StatusOK, alerts)
}
