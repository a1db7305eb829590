package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

type userClient struct {
	c     *Client
	creds []models.BackendCookie
}

var _ Fleet = (*userClient)(nil)

func (u *userClient) get(ctx context.Context, op, path string, q url.Values, out any) error {
	_, err := u.c.call(ctx, op, false, u.creds, http.MethodGet, path, q, nil, out)
	return err
}

func (u *userClient) post(ctx context.Context, op, path string, in, out any) error {
	_, err := u.c.call(ctx, op, false, u.creds, http.MethodPost, path, nil, in, out)
	return err
}

type created struct {
	ID int64 `json:"id"`
}

// GET /api/dashboard?region&type&status
func (u *userClient) Dashboard(ctx context.Context, f models.DashboardFilter) (models.DashboardStats, error) {
	q := url.Values{}
	for k, v := range map[string]string{"region": f.Region, "type": f.Type, "status": f.Status} {
		if v = strings.TrimSpace(v); v != "" && v != "all" {
			q.Set(k, v)
		}
	}
	var out models.DashboardStats
	err := u.get(ctx, "dashboard", "/api/dashboard", q, &out)
	return out, err
}

// GET /api/vehicles
func (u *userClient) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	var out []models.Vehicle
	err := u.get(ctx, "vehicles", "/api/vehicles", nil, &out)
	return out, err
}

// POST /api/vehicles/new
func (u *userClient) CreateVehicle(ctx context.Context, in models.VehicleInput) (int64, error) {
	var out created
	err := u.post(ctx, "vehicles.new", "/api/vehicles/new", in, &out)
	return out.ID, err
}

// POST /api/vehicles/update
func (u *userClient) UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) error {
	body := struct {
		ID int64 `json:"id"`
		models.VehicleInput
	}{ID: id, VehicleInput: in}
	return u.post(ctx, "vehicles.update", "/api/vehicles/update", body, nil)
}

// POST /api/vehicles/delete
func (u *userClient) DeleteVehicle(ctx context.Context, id int64) error {
	return u.post(ctx, "vehicles.delete", "/api/vehicles/delete", map[string]int64{"id": id}, nil)
}

// POST /api/vehicles/action
func (u *userClient) SetVehicleStatus(ctx context.Context, id int64, status models.VehicleStatus) error {
	body := struct {
		VehicleID int64                `json:"vehicle_id"`
		Status    models.VehicleStatus `json:"status"`
	}{id, status}
	return u.post(ctx, "vehicles.action", "/api/vehicles/action", body, nil)
}

// GET /api/drivers
func (u *userClient) Drivers(ctx context.Context) ([]models.Driver, error) {
	var out []models.Driver
	err := u.get(ctx, "drivers", "/api/drivers", nil, &out)
	return out, err
}

// POST /api/drivers/action
func (u *userClient) UpdateDriver(ctx context.Context, d models.DriverUpdate) error {
	return u.post(ctx, "drivers.action", "/api/drivers/action", d, nil)
}

// GET /api/trips
func (u *userClient) Trips(ctx context.Context) ([]models.Trip, error) {
	var out []models.Trip
	err := u.get(ctx, "trips", "/api/trips", nil, &out)
	return out, err
}

// POST /api/trips/new
func (u *userClient) CreateTrip(ctx context.Context, in models.TripInput) (int64, error) {
	var out created
	err := u.post(ctx, "trips.new", "/api/trips/new", in, &out)
	return out.ID, err
}

// POST /api/trips/dispatch
func (u *userClient) DispatchTrip(ctx context.Context, id int64) error {
	return u.post(ctx, "trips.dispatch", "/api/trips/dispatch", map[string]int64{"trip_id": id}, nil)
}

// POST /api/trips/action
func (u *userClient) TripAction(ctx context.Context, id int64, action string) error {
	body := struct {
		TripID int64  `json:"trip_id"`
		Action string `json:"action"`
	}{id, action}
	return u.post(ctx, "trips.action", "/api/trips/action", body, nil)
}

// GET /api/maintenance
func (u *userClient) Maintenance(ctx context.Context) ([]models.MaintenanceLog, error) {
	var out []models.MaintenanceLog
	err := u.get(ctx, "maintenance", "/api/maintenance", nil, &out)
	return out, err
}

// POST /api/maintenance/new
func (u *userClient) CreateMaintenance(ctx context.Context, in models.MaintenanceInput) (int64, error) {
	var out created
	err := u.post(ctx, "maintenance.new", "/api/maintenance/new", in, &out)
	return out.ID, err
}

// POST /api/maintenance/action
func (u *userClient) CompleteMaintenance(ctx context.Context, id int64) error {
	return u.post(ctx, "maintenance.action", "/api/maintenance/action", map[string]int64{"log_id": id}, nil)
}

// GET /api/fuel
func (u *userClient) Fuel(ctx context.Context) ([]models.FuelLog, error) {
	var out []models.FuelLog
	err := u.get(ctx, "fuel", "/api/fuel", nil, &out)
	return out, err
}

// POST /api/fuel/new
func (u *userClient) CreateFuel(ctx context.Context, in models.FuelInput) (int64, error) {
	var out created
	err := u.post(ctx, "fuel.new", "/api/fuel/new", in, &out)
	return out.ID, err
}

// GET /api/analytics
func (u *userClient) Analytics(ctx context.Context) (models.Analytics, error) {
	var out models.Analytics
	err := u.get(ctx, "analytics", "/api/analytics", nil, &out)
	return out, err
}

// GET /api/alerts
func (u *userClient) Alerts(ctx context.Context) ([]models.Alert, error) {
	var out []models.Alert
	err := u.get(ctx, "alerts", "/api/alerts", nil, &out)
	return out, err
}
