package handlers

import (
	"net/http"
	"strconv"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

const driversPath = "/drivers"

// GET /drivers
func (h *Handler) Drivers(w http.ResponseWriter, r *http.Request) {
	ds, err := h.fleet(r).Drivers(r.Context())
	if err != nil && h.aborted(w, r, err) {
		return
	}
	if err == nil {
		h.remember(r, fleet.Drivers, ds)
	}
	p := h.page(r, "Driver Profiles", "drivers", views.DriversData{Rows: fleet.DriverRows(ds, h.now())})
	h.Views.Render(w, r, loadFailed(&p, err, "drivers"), "drivers", p)
}

// POST /drivers/{id}/status
func (h *Handler) DriverStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, driversPath)
		return
	}
	st := models.DriverStatus(text(r, "status"))
	if !fleet.ValidDriverStatus(st) {
		h.flash(r, "error", "Choose a valid driver status.")
		httpserver.SeeOther(w, r, driversPath)
		return
	}
	if err := h.fleet(r).UpdateDriver(r.Context(), models.DriverUpdate{DriverID: id, Status: st}); err != nil {
		h.actionFailed(w, r, err, "Could not update the driver.", driversPath)
		return
	}
	h.done(w, r, fleet.Drivers, "Driver status set to "+string(st)+".", driversPath)
}

// POST /drivers/{id}/score
func (h *Handler) DriverScore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, driversPath)
		return
	}
	score, err := strconv.ParseFloat(text(r, "safety_score"), 64)
	if err != nil || !fleet.ValidSafetyScore(score) {
		h.flash(r, "error", "Safety score must be between 0 and 100.")
		httpserver.SeeOther(w, r, driversPath)
		return
	}
	if err := h.fleet(r).UpdateDriver(r.Context(), models.DriverUpdate{DriverID: id, SafetyScore: &score}); err != nil {
		h.actionFailed(w, r, err, "Could not update the driver.", driversPath)
		return
	}
	h.done(w, r, fleet.Drivers, "Safety score updated.", driversPath)
}
