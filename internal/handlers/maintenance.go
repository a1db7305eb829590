package handlers

import (
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

const maintenancePath = "/maintenance"

// GET /maintenance
func (h *Handler) Maintenance(w http.ResponseWriter, r *http.Request) {
	h.renderMaintenance(w, r, http.StatusOK, nil, "")
}

func (h *Handler) renderMaintenance(w http.ResponseWriter, r *http.Request, status int, form *models.MaintenanceInput, formErr string) {
	logs, err := h.fleet(r).Maintenance(r.Context())
	if err != nil && h.aborted(w, r, err) {
		return
	}
	vs, verr := h.lookupVehicles(r)
	if verr != nil && h.aborted(w, r, verr) {
		return
	}
	data := views.MaintenanceData{Vehicles: serviceable(vs)}
	for _, l := range logs {
		data.Rows = append(data.Rows, views.MaintenanceRow{MaintenanceLog: l, CanComplete: fleet.CanComplete(l)})
	}
	if form != nil {
		data.Form = *form
	}
	p := h.page(r, "Service Logs", "maintenance", data)
	p.Error = formErr
	switch {
	case err != nil:
		status = loadFailed(&p, err, "service logs")
	case verr != nil:
		status = loadFailed(&p, verr, "vehicles")
	}
	h.Views.Render(w, r, status, "maintenance", p)
}

// serviceable drops retired vehicles from the service form.
func serviceable(vs []models.Vehicle) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(vs))
	for _, v := range vs {
		if v.Status != models.VehicleRetired {
			out = append(out, v)
		}
	}
	return out
}

// POST /maintenance/new
func (h *Handler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	in, err := maintenanceForm(r)
	if err == nil {
		_, err = h.fleet(r).CreateMaintenance(r.Context(), in)
	}
	if err != nil {
		if status, msg, ok := h.formFailed(w, r, err, "Could not log the service."); ok {
			h.renderMaintenance(w, r, status, &in, msg)
		}
		return
	}
	h.done(w, r, fleet.Maintenance, "Service logged; the vehicle is in the shop.", maintenancePath)
}

// POST /maintenance/{id}/done
func (h *Handler) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, maintenancePath)
		return
	}
	if err := h.fleet(r).CompleteMaintenance(r.Context(), id); err != nil {
		h.actionFailed(w, r, err, "Could not complete the service.", maintenancePath)
		return
	}
	h.done(w, r, fleet.Maintenance, "Service completed.", maintenancePath)
}
