package views

import (
	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

type LoginData struct {
	Login string
}

type RoleData struct {
	Roles []models.Role
}

type RegisterData struct {
	Name  string
	Email string
	Role  string
}

type DashboardData struct {
	Filter models.DashboardFilter
	Stats  models.DashboardStats
}

type VehicleRow struct {
	models.Vehicle
	Toggle    models.VehicleStatus
	CanToggle bool
}

type VehiclesData struct {
	Rows  []VehicleRow
	Query string
	// Form is the create form, or the edit form when EditID is set.
	Form   models.VehicleInput
	EditID int64
}

type TripRow struct {
	models.Trip
	Steps    []fleet.Step
	Controls []fleet.TripControl
}

type TripsData struct {
	Rows     []TripRow
	Vehicles []models.Vehicle
	Drivers  []models.Driver
	Form     models.TripInput
	// PlannedStart is the raw datetime-local value.
	PlannedStart string
	Check        fleet.DraftCheck
}

type DriversData struct {
	Rows []fleet.DriverRow
}

type MaintenanceRow struct {
	models.MaintenanceLog
	CanComplete bool
}

type MaintenanceData struct {
	Rows     []MaintenanceRow
	Vehicles []models.Vehicle
	Form     models.MaintenanceInput
}

type FuelData struct {
	Logs     []models.FuelLog
	Vehicles []models.Vehicle
	Form     models.FuelInput
}

type AnalyticsData struct {
	Summary fleet.Summary
}
