package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

const vehiclesPath = "/vehicles"

// GET /vehicles
func (h *Handler) Vehicles(w http.ResponseWriter, r *http.Request) {
	editID, _ := strconv.ParseInt(r.URL.Query().Get("edit"), 10, 64)
	h.renderVehicles(w, r, http.StatusOK, nil, editID, "")
}

// renderVehicles always refetches the registry. A nil form is filled from
// the record being edited, or left blank for a new vehicle.
func (h *Handler) renderVehicles(w http.ResponseWriter, r *http.Request, status int, form *models.VehicleInput, editID int64, formErr string) {
	vs, err := h.fleet(r).Vehicles(r.Context())
	if err != nil && h.aborted(w, r, err) {
		return
	}
	if err == nil {
		h.remember(r, fleet.Vehicles, vs)
	}
	data := views.VehiclesData{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		EditID: editID,
		Form:   models.VehicleInput{VehicleType: models.VehicleTypes[0]},
	}
	for _, v := range fleet.SearchVehicles(vs, data.Query) {
		to, ok := fleet.ServiceToggle(v)
		data.Rows = append(data.Rows, views.VehicleRow{Vehicle: v, Toggle: to, CanToggle: ok})
	}
	switch {
	case form != nil:
		data.Form = *form
	case editID != 0:
		data.EditID = 0
		for _, v := range vs {
			if v.ID == editID {
				data.EditID = editID
				data.Form = models.VehicleInput{
					Name:            v.Name,
					LicensePlate:    v.LicensePlate,
					VehicleType:     v.VehicleType,
					Region:          v.Region,
					MaxLoadCapacity: v.MaxLoadCapacity,
					Odometer:        v.Odometer,
					AcquisitionCost: v.AcquisitionCost,
				}
			}
		}
	}
	p := h.page(r, "Vehicle Registry", "vehicles", data)
	p.Error = formErr
	if err != nil {
		status = loadFailed(&p, err, "vehicles")
	}
	h.Views.Render(w, r, status, "vehicles", p)
}

// POST /vehicles/new
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	in, err := vehicleForm(r)
	if err == nil {
		_, err = h.fleet(r).CreateVehicle(r.Context(), in)
	}
	if err != nil {
		h.vehicleFormFailed(w, r, err, &in, 0, "Could not create the vehicle.")
		return
	}
	h.done(w, r, fleet.Vehicles, "Vehicle "+in.LicensePlate+" registered.", vehiclesPath)
}

// POST /vehicles/{id}/update
func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, vehiclesPath)
		return
	}
	in, err := vehicleForm(r)
	if err == nil {
		err = h.fleet(r).UpdateVehicle(r.Context(), id, in)
	}
	if err != nil {
		h.vehicleFormFailed(w, r, err, &in, id, "Could not update the vehicle.")
		return
	}
	h.done(w, r, fleet.Vehicles, "Vehicle "+in.LicensePlate+" updated.", vehiclesPath)
}

func (h *Handler) vehicleFormFailed(w http.ResponseWriter, r *http.Request, err error, in *models.VehicleInput, editID int64, fallback string) {
	if status, msg, ok := h.formFailed(w, r, err, fallback); ok {
		h.renderVehicles(w, r, status, in, editID, msg)
	}
}

// POST /vehicles/{id}/delete
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, vehiclesPath)
		return
	}
	if err := h.fleet(r).DeleteVehicle(r.Context(), id); err != nil {
		h.actionFailed(w, r, err, "Could not delete the vehicle.", vehiclesPath)
		return
	}
	h.done(w, r, fleet.Vehicles, "Vehicle deleted.", vehiclesPath)
}

// POST /vehicles/{id}/toggle
//
// The target status is derived from the vehicle's current state. The form
// carries the target the page showed; a mismatch means the row is stale.
func (h *Handler) ToggleVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, vehiclesPath)
		return
	}
	vs, err := h.fleet(r).Vehicles(r.Context())
	if err != nil {
		h.actionFailed(w, r, err, "Could not load the vehicle.", vehiclesPath)
		return
	}
	var (
		v     models.Vehicle
		found bool
	)
	for _, c := range vs {
		if c.ID == id {
			v, found = c, true
			break
		}
	}
	if !found {
		h.flash(r, "error", "Vehicle not found.")
		httpserver.SeeOther(w, r, vehiclesPath)
		return
	}
	to, ok := fleet.ServiceToggle(v)
	if !ok {
		h.flash(r, "warning", v.Name+" is on a trip and cannot be taken out of service.")
		httpserver.SeeOther(w, r, vehiclesPath)
		return
	}
	if want := models.VehicleStatus(text(r, "status")); want != "" && want != to {
		h.flash(r, "warning", v.Name+" changed status to "+string(v.Status)+". Review it and try again.")
		h.invalidate(r, fleet.Vehicles)
		httpserver.SeeOther(w, r, vehiclesPath)
		return
	}
	if err := h.fleet(r).SetVehicleStatus(r.Context(), id, to); err != nil {
		h.actionFailed(w, r, err, "Could not change the vehicle status.", vehiclesPath)
		return
	}
	h.done(w, r, fleet.Vehicles, v.Name+" is now "+string(to)+".", vehiclesPath)
}
