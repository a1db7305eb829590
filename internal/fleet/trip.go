// Package fleet mirrors the backend's fleet rules for presentation: which
// trip controls exist in each state, the overweight pre-check, driver licence
// expiry, ROI, and which views a mutation makes stale. The backend remains
// the authority for every rule here.
package fleet

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// TripAction is a transition request sent to the backend.
type TripAction string

const (
	ActionDispatch TripAction = "dispatch"
	ActionComplete TripAction = "complete"
	ActionCancel   TripAction = "cancel"
)

var ErrInvalidTransition = errors.New("invalid trip transition")

var transitions = map[models.TripState]map[TripAction]models.TripState{
	models.TripDraft: {
		ActionDispatch: models.TripDispatched,
	},
	models.TripDispatched: {
		ActionComplete: models.TripCompleted,
		ActionCancel:   models.TripCancelled,
	},
}

func ParseTripAction(s string) (TripAction, error) {
	switch a := TripAction(s); a {
	case ActionDispatch, ActionComplete, ActionCancel:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, s)
}

// Next returns the state a transition leads to. There is no way back to
// Draft and none between the two terminal states.
func Next(from models.TripState, a TripAction) (models.TripState, error) {
	to, ok := transitions[from][a]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, from)
	}
	return to, nil
}

func Terminal(s models.TripState) bool {
	return s == models.TripCompleted || s == models.TripCancelled
}

// TripControl is one rendered button on a trip row.
type TripControl struct {
	Action   TripAction
	Label    string
	Danger   bool
	Disabled bool
	Reason   string
}

// TripActions returns exactly the controls valid from the trip's state.
// Dispatch is rendered disabled, with a reason, when the trip lacks a vehicle
// or driver or its cargo exceeds the vehicle's capacity.
func TripActions(t models.Trip, vehicles []models.Vehicle) []TripControl {
	switch t.State {
	case models.TripDraft:
		c := TripControl{Action: ActionDispatch, Label: "Dispatch"}
		switch {
		case !t.VehicleID.Set():
			c.Disabled, c.Reason = true, "Assign a vehicle first"
		case !t.DriverID.Set():
			c.Disabled, c.Reason = true, "Assign a driver first"
		default:
			if v, ok := findVehicle(vehicles, t.VehicleID.ID); ok && Overweight(t.CargoWeight, v) {
				c.Disabled, c.Reason = true, overweightReason(t.CargoWeight, v)
			}
		}
		return []TripControl{c}
	case models.TripDispatched:
		return []TripControl{
			{Action: ActionComplete, Label: "Complete"},
			{Action: ActionCancel, Label: "Cancel", Danger: true},
		}
	}
	return nil
}

// UnavailableReason is given when the trip's state offers no
// such control.
const UnavailableReason = "That action is no longer available for this trip."

// Allowed reports whether action is an enabled control of t, and the reason
// when it is not.
func Allowed(t models.Trip, vehicles []models.Vehicle, action TripAction) (bool, string) {
	for _, c := range TripActions(t, vehicles) {
		if c.Action != action {
			continue
		}
		if c.Disabled {
			return false, c.Reason
		}
		return true, ""
	}
	return false, UnavailableReason
}

// Step is one stage of the trip progress indicator.
type Step struct {
	Label  string
	Done   bool
	Active bool
	Error  bool
}

// Progress renders Draft, Dispatched, Completed. A cancelled trip shows the
// last step as "Cancelled" in the error style.
func Progress(s models.TripState) []Step {
	steps := []Step{{Label: "Draft"}, {Label: "Dispatched"}, {Label: "Completed"}}
	cur := 0
	switch s {
	case models.TripDispatched:
		cur = 1
	case models.TripCompleted:
		cur = 2
	case models.TripCancelled:
		cur = 2
		steps[2].Label = "Cancelled"
		steps[2].Error = true
	}
	for i := range steps {
		steps[i].Done = i < cur || (i == cur && Terminal(s))
		steps[i].Active = i == cur
	}
	return steps
}

// Overweight reports whether cargo exceeds the vehicle's capacity.
func Overweight(cargo float64, v models.Vehicle) bool {
	return cargo > v.MaxLoadCapacity
}

func overweightReason(cargo float64, v models.Vehicle) string {
	return "Cargo " + formatKG(cargo) + " exceeds capacity " + formatKG(v.MaxLoadCapacity)
}

func formatKG(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) + " kg" }

// DraftCheck is the state of the new-trip form.
type DraftCheck struct {
	Vehicle    *models.Vehicle
	Overweight bool
	Missing    []string
	CanSubmit  bool
	Message    string
}

// CheckDraft runs the pre-submission checks for a new trip. It is a UX
// affordance; a passing draft may still be rejected by the backend.
func CheckDraft(in models.TripInput, vehicles []models.Vehicle) DraftCheck {
	var dc DraftCheck
	if in.VehicleID == 0 {
		dc.Missing = append(dc.Missing, "vehicle")
	}
	if in.DriverID == 0 {
		dc.Missing = append(dc.Missing, "driver")
	}
	if in.VehicleID != 0 {
		if v, ok := findVehicle(vehicles, in.VehicleID); ok {
			dc.Vehicle = &v
			if Overweight(in.CargoWeight, v) {
				dc.Overweight = true
				dc.Message = "Overweight! " + overweightReason(in.CargoWeight, v)
			}
		} else {
			dc.Missing = append(dc.Missing, "vehicle")
		}
	}
	dc.CanSubmit = len(dc.Missing) == 0 && !dc.Overweight
	if dc.Message == "" && len(dc.Missing) > 0 {
		dc.Message = "Select a " + dc.Missing[0]
	}
	return dc
}

// DispatchableVehicles lists vehicles a new trip may be assigned to.
func DispatchableVehicles(vs []models.Vehicle) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(vs))
	for _, v := range vs {
		if v.Status == models.VehicleAvailable {
			out = append(out, v)
		}
	}
	return out
}

// DispatchableDrivers lists drivers that are on duty.
func DispatchableDrivers(ds []models.Driver) []models.Driver {
	out := make([]models.Driver, 0, len(ds))
	for _, d := range ds {
		if d.Status == models.DriverOnDuty {
			out = append(out, d)
		}
	}
	return out
}

func findVehicle(vs []models.Vehicle, id int64) (models.Vehicle, bool) {
	for _, v := range vs {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}
