package handlers

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

const fuelPath = "/fuel"

// GET /fuel
func (h *Handler) Fuel(w http.ResponseWriter, r *http.Request) {
	h.renderFuel(w, r, http.StatusOK, nil, "")
}

func (h *Handler) renderFuel(w http.ResponseWriter, r *http.Request, status int, form *models.FuelInput, formErr string) {
	logs, err := h.fleet(r).Fuel(r.Context())
	if err != nil && h.aborted(w, r, err) {
		return
	}
	vs, verr := h.lookupVehicles(r)
	if verr != nil && h.aborted(w, r, verr) {
		return
	}
	data := views.FuelData{Logs: logs, Vehicles: vs}
	if form != nil {
		data.Form = *form
	}
	p := h.page(r, "Fuel & Expenses", "fuel", data)
	p.Error = formErr
	switch {
	case err != nil:
		status = loadFailed(&p, err, "fuel logs")
	case verr != nil:
		status = loadFailed(&p, verr, "vehicles")
	}
	h.Views.Render(w, r, status, "fuel", p)
}

// POST /fuel/new
func (h *Handler) CreateFuel(w http.ResponseWriter, r *http.Request) {
	in, err := fuelForm(r)
	if err == nil {
		_, err = h.fleet(r).CreateFuel(r.Context(), in)
	}
	if err != nil {
		if status, msg, ok := h.formFailed(w, r, err, "Could not log the fill-up."); ok {
			h.renderFuel(w, r, status, &in, msg)
		}
		return
	}
	h.done(w, r, fleet.Fuel, "Fuel logged.", fuelPath)
}
