package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

const tripsPath = "/trips"

// GET /trips
func (h *Handler) Trips(w http.ResponseWriter, r *http.Request) {
	h.renderTrips(w, r, http.StatusOK, nil, "", "")
}

// renderTrips refetches trips; the assignment lists come from the lookup
// cache.
func (h *Handler) renderTrips(w http.ResponseWriter, r *http.Request, status int, form *models.TripInput, rawStart, formErr string) {
	trips, err := h.fleet(r).Trips(r.Context())
	if err != nil && h.aborted(w, r, err) {
		return
	}
	vs, verr := h.lookupVehicles(r)
	if verr != nil && h.aborted(w, r, verr) {
		return
	}
	ds, derr := h.lookupDrivers(r)
	if derr != nil && h.aborted(w, r, derr) {
		return
	}

	data := views.TripsData{
		Vehicles: fleet.DispatchableVehicles(vs),
		Drivers:  fleet.DispatchableDrivers(ds),
	}
	for _, t := range trips {
		data.Rows = append(data.Rows, views.TripRow{
			Trip:     t,
			Steps:    fleet.Progress(t.State),
			Controls: fleet.TripActions(t, vs),
		})
	}
	if form != nil {
		data.Form = *form
		data.PlannedStart = rawStart
		if data.PlannedStart == "" {
			data.PlannedStart = localStart(form.PlannedStartDate)
		}
		data.Check = fleet.CheckDraft(*form, data.Vehicles)
	}

	p := h.page(r, "Trip Dispatcher", "trips", data)
	p.Error = formErr
	switch {
	case err != nil:
		status = loadFailed(&p, err, "trips")
	case verr != nil:
		status = loadFailed(&p, verr, "vehicles")
	case derr != nil:
		status = loadFailed(&p, derr, "drivers")
	}
	h.Views.Render(w, r, status, "trips", p)
}

// POST /trips/new
//
// The overweight and assignment checks run before the backend is called;
// the backend may still refuse a draft that passes them.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	in, raw, err := tripForm(r)
	if err == nil {
		var vs []models.Vehicle
		vs, err = h.lookupVehicles(r)
		if err == nil {
			if dc := fleet.CheckDraft(in, fleet.DispatchableVehicles(vs)); !dc.CanSubmit {
				err = formError(dc.Message)
			}
		}
	}
	if err == nil {
		_, err = h.fleet(r).CreateTrip(r.Context(), in)
	}
	if err != nil {
		if status, msg, ok := h.formFailed(w, r, err, "Could not create the trip."); ok {
			h.renderTrips(w, r, status, &in, raw, msg)
		}
		return
	}
	h.done(w, r, fleet.Trips, "Trip from "+in.Source+" to "+in.Destination+" created.", tripsPath)
}

var tripDone = map[fleet.TripAction]string{
	fleet.ActionDispatch: "Trip dispatched.",
	fleet.ActionComplete: "Trip completed.",
	fleet.ActionCancel:   "Trip cancelled.",
}

// POST /trips/{id}/{action}
func (h *Handler) TripAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpserver.SeeOther(w, r, tripsPath)
		return
	}
	action, err := fleet.ParseTripAction(chi.URLParam(r, "action"))
	if err != nil {
		h.flash(r, "error", "Unknown trip action.")
		httpserver.SeeOther(w, r, tripsPath)
		return
	}
	f := h.fleet(r)
	trips, err := f.Trips(r.Context())
	if err != nil {
		h.actionFailed(w, r, err, "Could not update the trip.", tripsPath)
		return
	}
	if t, found := findTrip(trips, id); found {
		vs, err := h.lookupVehicles(r)
		if err != nil {
			h.actionFailed(w, r, err, "Could not update the trip.", tripsPath)
			return
		}
		if ok, reason := fleet.Allowed(t, vs, action); !ok {
			h.flash(r, "error", reason)
			httpserver.SeeOther(w, r, tripsPath)
			return
		}
	}
	if action == fleet.ActionDispatch {
		err = f.DispatchTrip(r.Context(), id)
	} else {
		err = f.TripAction(r.Context(), id, string(action))
	}
	if err != nil {
		h.actionFailed(w, r, err, "Could not update the trip.", tripsPath)
		return
	}
	h.done(w, r, fleet.Trips, tripDone[action], tripsPath)
}

func findTrip(ts []models.Trip, id int64) (models.Trip, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return models.Trip{}, false
}
