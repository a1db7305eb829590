// internal/models/types.go
package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "Available"
	VehicleOnTrip    VehicleStatus = "On Trip"
	VehicleInShop    VehicleStatus = "In Shop"
	VehicleRetired   VehicleStatus = "Retired"
)

var VehicleStatuses = []VehicleStatus{VehicleAvailable, VehicleOnTrip, VehicleInShop, VehicleRetired}

var VehicleTypes = []string{"car", "truck", "van"}

type DriverStatus string

const (
	DriverOnDuty    DriverStatus = "On Duty"
	DriverOffDuty   DriverStatus = "Off Duty"
	DriverOnTrip    DriverStatus = "On Trip"
	DriverSuspended DriverStatus = "Suspended"
)

var DriverStatuses = []DriverStatus{DriverOnDuty, DriverOffDuty, DriverOnTrip, DriverSuspended}

type TripState string

const (
	TripDraft      TripState = "Draft"
	TripDispatched TripState = "Dispatched"
	TripCompleted  TripState = "Completed"
	TripCancelled  TripState = "Cancelled"
)

type MaintenanceState string

const (
	MaintenanceOpen MaintenanceState = "Open"
	MaintenanceDone MaintenanceState = "Done"
)

type AlertType string

const (
	AlertError   AlertType = "error"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

var ErrNotFound = errors.New("not found")

// User is the authenticated principal as reported by the backend.
type User struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type Vehicle struct {
	ID                   int64         `json:"id"`
	Name                 string        `json:"name"`
	LicensePlate         string        `json:"license_plate"`
	VehicleType          string        `json:"vehicle_type"`
	Region               string        `json:"region,omitempty"`
	MaxLoadCapacity      float64       `json:"max_load_capacity"`
	Odometer             float64       `json:"odometer"`
	AcquisitionCost      float64       `json:"acquisition_cost,omitempty"`
	Status               VehicleStatus `json:"status"`
	TotalFuelCost        float64       `json:"total_fuel_cost,omitempty"`
	TotalMaintenanceCost float64       `json:"total_maintenance_cost,omitempty"`
	TotalOperationalCost float64       `json:"total_operational_cost,omitempty"`
}

// VehicleInput is the create/update payload.
type VehicleInput struct {
	Name            string  `json:"name"`
	LicensePlate    string  `json:"license_plate"`
	VehicleType     string  `json:"vehicle_type"`
	Region          string  `json:"region"`
	MaxLoadCapacity float64 `json:"max_load_capacity"`
	Odometer        float64 `json:"odometer"`
	AcquisitionCost float64 `json:"acquisition_cost,omitempty"`
}

type Driver struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	LicenseNumber     string       `json:"license_number"`
	LicenseExpiryDate Date         `json:"license_expiry_date"`
	Status            DriverStatus `json:"status"`
	SafetyScore       float64      `json:"safety_score"`
	CompletionRate    float64      `json:"completion_rate"`
}

// DriverUpdate carries either a status change or a new safety score.
type DriverUpdate struct {
	DriverID    int64        `json:"driver_id"`
	Status      DriverStatus `json:"status,omitempty"`
	SafetyScore *float64     `json:"safety_score,omitempty"`
}

type Trip struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Source           string    `json:"source"`
	Destination      string    `json:"destination"`
	VehicleID        Ref       `json:"vehicle_id"`
	VehicleName      string    `json:"vehicle_name"`
	DriverID         Ref       `json:"driver_id"`
	DriverName       string    `json:"driver_name"`
	CargoWeight      float64   `json:"cargo_weight"`
	DistanceKM       float64   `json:"distance_km"`
	Revenue          float64   `json:"revenue"`
	PlannedStartDate string    `json:"planned_start_date,omitempty"`
	State            TripState `json:"state"`
}

type TripInput struct {
	VehicleID        int64   `json:"vehicle_id"`
	DriverID         int64   `json:"driver_id"`
	Source           string  `json:"source"`
	Destination      string  `json:"destination"`
	PlannedStartDate string  `json:"planned_start_date"`
	CargoWeight      float64 `json:"cargo_weight"`
	DistanceKM       float64 `json:"distance_km"`
	Revenue          float64 `json:"revenue"`
}

type MaintenanceLog struct {
	ID          int64            `json:"id"`
	VehicleID   Ref              `json:"vehicle_id"`
	VehicleName string           `json:"vehicle_name"`
	Date        string           `json:"date"`
	ServiceType string           `json:"service_type"`
	Notes       string           `json:"notes,omitempty"`
	Cost        float64          `json:"cost"`
	State       MaintenanceState `json:"state"`
}

type MaintenanceInput struct {
	VehicleID   int64   `json:"vehicle_id"`
	Date        string  `json:"date,omitempty"`
	ServiceType string  `json:"service_type"`
	Notes       string  `json:"notes,omitempty"`
	Cost        float64 `json:"cost"`
}

type FuelLog struct {
	ID             int64   `json:"id"`
	VehicleID      Ref     `json:"vehicle_id"`
	VehicleName    string  `json:"vehicle_name"`
	Date           string  `json:"date"`
	Liters         float64 `json:"liters"`
	Cost           float64 `json:"cost"`
	OdometerAtFill float64 `json:"odometer_at_fill"`
}

type FuelInput struct {
	VehicleID      int64   `json:"vehicle_id"`
	Date           string  `json:"date,omitempty"`
	Liters         float64 `json:"liters"`
	Cost           float64 `json:"cost"`
	OdometerAtFill float64 `json:"odometer_at_fill"`
}

type DashboardFilter struct {
	Region string
	Type   string
	Status string
}

type DashboardStats struct {
	ActiveFleet       int     `json:"active_fleet"`
	MaintenanceAlerts int     `json:"maintenance_alerts"`
	UtilizationRate   float64 `json:"utilization_rate"`
	PendingTrips      int     `json:"pending_trips"`
	TotalVehicles     int     `json:"total_vehicles"`
}

type VehicleStat struct {
	ID                   int64         `json:"id"`
	Name                 string        `json:"name"`
	LicensePlate         string        `json:"license_plate"`
	Status               VehicleStatus `json:"status"`
	AcquisitionCost      float64       `json:"acquisition_cost"`
	TotalOperationalCost float64       `json:"total_operational_cost"`
	TotalFuelCost        float64       `json:"total_fuel_cost"`
	TotalMaintenanceCost float64       `json:"total_maintenance_cost"`
	FuelEfficiency       float64       `json:"fuel_efficiency"`
	VehicleRevenue       float64       `json:"vehicle_revenue"`
}

type Analytics struct {
	TotalRevenue         float64       `json:"total_revenue"`
	TotalFuelCost        float64       `json:"total_fuel_cost"`
	TotalMaintenanceCost float64       `json:"total_maintenance_cost"`
	VehicleStats         []VehicleStat `json:"vehicle_stats"`
}

type Alert struct {
	ID      string    `json:"id"`
	Type    AlertType `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Ref is a many-to-one reference. The backend sends either a bare id, an
// [id, "display name"] pair, or false when unset.
type Ref struct {
	ID   int64
	Name string
}

func (r Ref) Set() bool { return r.ID != 0 }

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == 0 {
		return []byte("false"), nil
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	*r = Ref{}
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null" || s == "false":
		return nil
	case strings.HasPrefix(s, "["):
		var pair []json.RawMessage
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) == 0 {
			return nil
		}
		if err := json.Unmarshal(pair[0], &r.ID); err != nil {
			return err
		}
		if len(pair) > 1 {
			_ = json.Unmarshal(pair[1], &r.Name)
		}
		return nil
	default:
		return json.Unmarshal(b, &r.ID)
	}
}

const dateLayout = "2006-01-02"

// Date is a calendar date serialised as YYYY-MM-DD. Unparseable or empty
// values decode to the zero Date.
type Date struct{ time.Time }

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	*d = Date{}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// false/null from the backend
		return nil
	}
	s = strings.TrimSpace(s)
	if len(s) >= len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	d.Time = t
	return nil
}
