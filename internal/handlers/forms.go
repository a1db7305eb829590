package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// formError is a local validation failure shown next to the form.
type formError string

func (e formError) Error() string { return string(e) }

func text(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// number parses an optional non-negative number; blank is zero.
func number(r *http.Request, name, label string) (float64, error) {
	raw := text(r, name)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, formError(label + " must be a number.")
	}
	if f < 0 {
		return 0, formError(label + " cannot be negative.")
	}
	return f, nil
}

// ref parses a selected record id; blank is zero (unset).
func ref(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(text(r, name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

const (
	localMinute  = "2006-01-02T15:04"
	localSecond  = "2006-01-02T15:04:05"
	backendStamp = "2006-01-02 15:04:05"
)

// plannedStart converts a datetime-local value to the backend's timestamp
// format. Blank stays blank.
func plannedStart(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	for _, layout := range []string{localMinute, localSecond} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(backendStamp), nil
		}
	}
	return "", formError("Planned start is not a valid date and time.")
}

// localStart is the inverse of plannedStart for re-rendering a form.
func localStart(stamp string) string {
	t, err := time.Parse(backendStamp, stamp)
	if err != nil {
		return ""
	}
	return t.Format(localMinute)
}

func validDate(raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return formError("Date must be YYYY-MM-DD.")
	}
	return nil
}

func vehicleForm(r *http.Request) (models.VehicleInput, error) {
	in := models.VehicleInput{
		Name:         text(r, "name"),
		LicensePlate: strings.ToUpper(text(r, "license_plate")),
		VehicleType:  text(r, "vehicle_type"),
		Region:       text(r, "region"),
	}
	var err error
	if in.MaxLoadCapacity, err = number(r, "max_load_capacity", "Max load"); err != nil {
		return in, err
	}
	if in.Odometer, err = number(r, "odometer", "Odometer"); err != nil {
		return in, err
	}
	if in.AcquisitionCost, err = number(r, "acquisition_cost", "Acquisition cost"); err != nil {
		return in, err
	}
	switch {
	case in.Name == "":
		return in, formError("Name is required.")
	case in.LicensePlate == "":
		return in, formError("License plate is required.")
	case !knownVehicleType(in.VehicleType):
		return in, formError("Choose a vehicle type.")
	case in.MaxLoadCapacity <= 0:
		return in, formError("Max load must be greater than zero.")
	}
	return in, nil
}

func knownVehicleType(t string) bool {
	for _, v := range models.VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}

// tripForm returns the parsed input and the raw planned start so a failed
// submission re-renders what the user typed.
func tripForm(r *http.Request) (models.TripInput, string, error) {
	raw := text(r, "planned_start_date")
	in := models.TripInput{
		VehicleID:   ref(r, "vehicle_id"),
		DriverID:    ref(r, "driver_id"),
		Source:      text(r, "source"),
		Destination: text(r, "destination"),
	}
	var err error
	if in.CargoWeight, err = number(r, "cargo_weight", "Cargo weight"); err != nil {
		return in, raw, err
	}
	if in.DistanceKM, err = number(r, "distance_km", "Distance"); err != nil {
		return in, raw, err
	}
	if in.Revenue, err = number(r, "revenue", "Revenue"); err != nil {
		return in, raw, err
	}
	if in.PlannedStartDate, err = plannedStart(raw); err != nil {
		return in, raw, err
	}
	if in.Source == "" || in.Destination == "" {
		return in, raw, formError("Source and destination are required.")
	}
	return in, raw, nil
}

func maintenanceForm(r *http.Request) (models.MaintenanceInput, error) {
	in := models.MaintenanceInput{
		VehicleID:   ref(r, "vehicle_id"),
		Date:        text(r, "date"),
		ServiceType: text(r, "service_type"),
		Notes:       text(r, "notes"),
	}
	var err error
	if in.Cost, err = number(r, "cost", "Cost"); err != nil {
		return in, err
	}
	if err = validDate(in.Date); err != nil {
		return in, err
	}
	switch {
	case in.VehicleID == 0:
		return in, formError("Select a vehicle.")
	case in.ServiceType == "":
		return in, formError("Service type is required.")
	}
	return in, nil
}

func fuelForm(r *http.Request) (models.FuelInput, error) {
	in := models.FuelInput{
		VehicleID: ref(r, "vehicle_id"),
		Date:      text(r, "date"),
	}
	var err error
	if in.Liters, err = number(r, "liters", "Liters"); err != nil {
		return in, err
	}
	if in.Cost, err = number(r, "cost", "Cost"); err != nil {
		return in, err
	}
	if in.OdometerAtFill, err = number(r, "odometer_at_fill", "Odometer"); err != nil {
		return in, err
	}
	if err = validDate(in.Date); err != nil {
		return in, err
	}
	switch {
	case in.VehicleID == 0:
		return in, formError("Select a vehicle.")
	case in.Liters <= 0:
		return in, formError("Liters must be greater than zero.")
	}
	return in, nil
}
