// Package backendtest provides an in-memory FleetFlow backend for handler
// tests. It applies the same state rules as the real service closely enough
// to exercise refetch-after-mutation flows.
package backendtest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/SoniDharini/Fleet-Flow/internal/backend"
	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

type Account struct {
	UserID   int64
	Name     string
	Password string
	Roles    models.RoleSet
}

// State is the fake's stored data.
type State struct {
	Vehicles    []models.Vehicle
	Drivers     []models.Driver
	Trips       []models.Trip
	Maintenance []models.MaintenanceLog
	Fuel        []models.FuelLog
	Stats       models.DashboardStats
	Analytics   models.Analytics
	Alerts      []models.Alert
}

// Fake implements backend.Connector and backend.Fleet.
type Fake struct {
	mu sync.Mutex

	Accounts map[string]Account
	Data     State

	// LastFilter is the filter of the most recent dashboard call.
	LastFilter models.DashboardFilter
	calls      map[string]int
	fail       map[string]error
	expired    bool
	nextID     int64
}

var (
	_ backend.Connector = (*Fake)(nil)
	_ backend.Fleet     = (*Fake)(nil)
)

func New() *Fake {
	return &Fake{
		Accounts: map[string]Account{},
		calls:    map[string]int{},
		fail:     map[string]error{},
		nextID:   100,
	}
}

// Fail makes the next call to op return err.
func (f *Fake) Fail(op string, err error) {
	f.mu.Lock()
	f.fail[op] = err
	f.mu.Unlock()
}

// Expire makes every resource call fail with an expired session.
func (f *Fake) Expire() {
	f.mu.Lock()
	f.expired = true
	f.mu.Unlock()
}

// Calls returns how often op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func Validation(msg string) error {
	return &backend.Error{Kind: backend.KindValidation, Status: 400, Message: msg}
}

// enter records the call and returns any injected error. Callers hold f.mu.
func (f *Fake) enter(op string, resource bool) error {
	f.calls[op]++
	if err, ok := f.fail[op]; ok {
		delete(f.fail, op)
		return err
	}
	if resource && f.expired {
		return &backend.Error{Op: op, Kind: backend.KindSessionExpired, Status: 401, Message: "Session expired"}
	}
	return nil
}

func (f *Fake) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *Fake) Login(_ context.Context, login, password string) (backend.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("login", false); err != nil {
		return backend.LoginResult{}, err
	}
	a, ok := f.Accounts[strings.ToLower(login)]
	if !ok || a.Password != password {
		return backend.LoginResult{}, &backend.Error{Op: "login", Kind: backend.KindAuthentication, Status: 401, Message: "Invalid credentials"}
	}
	return backend.LoginResult{
		UserID:  a.UserID,
		Name:    a.Name,
		Roles:   a.Roles,
		Cookies: []models.BackendCookie{{Name: "session_id", Value: "sess-" + strconv.FormatInt(a.UserID, 10)}},
	}, nil
}

func (f *Fake) Register(_ context.Context, in backend.RegisterInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("register", false); err != nil {
		return err
	}
	key := strings.ToLower(in.Email)
	if _, ok := f.Accounts[key]; ok {
		return Validation("A user with this email already exists")
	}
	var roles models.RoleSet
	if in.Role.Valid() {
		roles = models.NewRoleSet(in.Role)
	}
	f.Accounts[key] = Account{UserID: f.id(), Name: in.Name, Password: in.Password, Roles: roles}
	return nil
}

func (f *Fake) Logout(_ context.Context, _ []models.BackendCookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enter("logout", false)
}

func (f *Fake) Me(_ context.Context, creds []models.BackendCookie) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("me", true); err != nil {
		return models.User{}, err
	}
	for email, a := range f.Accounts {
		for _, c := range creds {
			if c.Value == "sess-"+strconv.FormatInt(a.UserID, 10) {
				return models.User{ID: a.UserID, Name: a.Name, Email: email}, nil
			}
		}
	}
	return models.User{}, &backend.Error{Op: "me", Kind: backend.KindSessionExpired, Status: 401, Message: "Session expired"}
}

// For ignores creds; the fake serves a single tenant.
func (f *Fake) For(_ []models.BackendCookie) backend.Fleet { return f }

func (f *Fake) Dashboard(_ context.Context, flt models.DashboardFilter) (models.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("dashboard", true); err != nil {
		return models.DashboardStats{}, err
	}
	f.LastFilter = flt
	return f.Data.Stats, nil
}

// Snapshot returns a copy of the stored data.
func (f *Fake) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.Data
	st.Vehicles = append([]models.Vehicle(nil), f.Data.Vehicles...)
	st.Drivers = append([]models.Driver(nil), f.Data.Drivers...)
	st.Trips = append([]models.Trip(nil), f.Data.Trips...)
	st.Maintenance = append([]models.MaintenanceLog(nil), f.Data.Maintenance...)
	st.Fuel = append([]models.FuelLog(nil), f.Data.Fuel...)
	return st
}

func (f *Fake) Vehicles(_ context.Context) ([]models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("vehicles", true); err != nil {
		return nil, err
	}
	return append([]models.Vehicle(nil), f.Data.Vehicles...), nil
}

func (f *Fake) vehicle(id int64) (*models.Vehicle, error) {
	for i := range f.Data.Vehicles {
		if f.Data.Vehicles[i].ID == id {
			return &f.Data.Vehicles[i], nil
		}
	}
	return nil, &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Vehicle not found"}
}

func (f *Fake) CreateVehicle(_ context.Context, in models.VehicleInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("vehicles.create", true); err != nil {
		return 0, err
	}
	for _, v := range f.Data.Vehicles {
		if strings.EqualFold(v.LicensePlate, in.LicensePlate) {
			return 0, Validation("License plate must be unique!")
		}
	}
	v := models.Vehicle{
		ID: f.id(), Name: in.Name, LicensePlate: in.LicensePlate, VehicleType: in.VehicleType,
		Region: in.Region, MaxLoadCapacity: in.MaxLoadCapacity, Odometer: in.Odometer,
		AcquisitionCost: in.AcquisitionCost, Status: models.VehicleAvailable,
	}
	f.Data.Vehicles = append(f.Data.Vehicles, v)
	return v.ID, nil
}

func (f *Fake) UpdateVehicle(_ context.Context, id int64, in models.VehicleInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("vehicles.update", true); err != nil {
		return err
	}
	v, err := f.vehicle(id)
	if err != nil {
		return err
	}
	v.Name, v.LicensePlate, v.VehicleType, v.Region = in.Name, in.LicensePlate, in.VehicleType, in.Region
	v.MaxLoadCapacity, v.Odometer, v.AcquisitionCost = in.MaxLoadCapacity, in.Odometer, in.AcquisitionCost
	return nil
}

func (f *Fake) DeleteVehicle(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("vehicles.delete", true); err != nil {
		return err
	}
	for i, v := range f.Data.Vehicles {
		if v.ID == id {
			f.Data.Vehicles = append(f.Data.Vehicles[:i], f.Data.Vehicles[i+1:]...)
			return nil
		}
	}
	return &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Vehicle not found"}
}

func (f *Fake) SetVehicleStatus(_ context.Context, id int64, status models.VehicleStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("vehicles.status", true); err != nil {
		return err
	}
	v, err := f.vehicle(id)
	if err != nil {
		return err
	}
	if v.Status == models.VehicleOnTrip {
		return Validation("Vehicle is on a trip")
	}
	v.Status = status
	return nil
}

func (f *Fake) Drivers(_ context.Context) ([]models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("drivers", true); err != nil {
		return nil, err
	}
	return append([]models.Driver(nil), f.Data.Drivers...), nil
}

func (f *Fake) UpdateDriver(_ context.Context, u models.DriverUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("drivers.update", true); err != nil {
		return err
	}
	for i := range f.Data.Drivers {
		if f.Data.Drivers[i].ID != u.DriverID {
			continue
		}
		if u.Status != "" {
			f.Data.Drivers[i].Status = u.Status
		}
		if u.SafetyScore != nil {
			f.Data.Drivers[i].SafetyScore = *u.SafetyScore
		}
		return nil
	}
	return &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Driver not found"}
}

func (f *Fake) Trips(_ context.Context) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("trips", true); err != nil {
		return nil, err
	}
	return append([]models.Trip(nil), f.Data.Trips...), nil
}

func (f *Fake) CreateTrip(_ context.Context, in models.TripInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("trips.create", true); err != nil {
		return 0, err
	}
	v, err := f.vehicle(in.VehicleID)
	if err != nil {
		return 0, Validation("Vehicle is required")
	}
	if fleet.Overweight(in.CargoWeight, *v) {
		return 0, Validation("Cargo weight exceeds the vehicle's maximum load capacity!")
	}
	var driverName string
	for _, d := range f.Data.Drivers {
		if d.ID == in.DriverID {
			driverName = d.Name
		}
	}
	id := f.id()
	f.Data.Trips = append(f.Data.Trips, models.Trip{
		ID: id, Name: fmt.Sprintf("TRIP-%d", id), Source: in.Source, Destination: in.Destination,
		VehicleID: models.Ref{ID: v.ID, Name: v.Name}, VehicleName: v.Name,
		DriverID: models.Ref{ID: in.DriverID, Name: driverName}, DriverName: driverName,
		CargoWeight: in.CargoWeight, DistanceKM: in.DistanceKM, Revenue: in.Revenue,
		PlannedStartDate: in.PlannedStartDate, State: models.TripDraft,
	})
	return id, nil
}

func (f *Fake) trip(id int64) (*models.Trip, error) {
	for i := range f.Data.Trips {
		if f.Data.Trips[i].ID == id {
			return &f.Data.Trips[i], nil
		}
	}
	return nil, &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Trip not found"}
}

func (f *Fake) transition(t *models.Trip, a fleet.TripAction) error {
	next, err := fleet.Next(t.State, a)
	if err != nil {
		return Validation("Invalid state transition")
	}
	t.State = next
	if v, err := f.vehicle(t.VehicleID.ID); err == nil {
		if next == models.TripDispatched {
			v.Status = models.VehicleOnTrip
		} else {
			v.Status = models.VehicleAvailable
		}
	}
	return nil
}

func (f *Fake) DispatchTrip(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("trips.dispatch", true); err != nil {
		return err
	}
	t, err := f.trip(id)
	if err != nil {
		return err
	}
	return f.transition(t, fleet.ActionDispatch)
}

func (f *Fake) TripAction(_ context.Context, id int64, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("trips.action", true); err != nil {
		return err
	}
	t, err := f.trip(id)
	if err != nil {
		return err
	}
	a, err := fleet.ParseTripAction(action)
	if err != nil {
		return Validation("Unknown action")
	}
	return f.transition(t, a)
}

func (f *Fake) Maintenance(_ context.Context) ([]models.MaintenanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("maintenance", true); err != nil {
		return nil, err
	}
	return append([]models.MaintenanceLog(nil), f.Data.Maintenance...), nil
}

func (f *Fake) CreateMaintenance(_ context.Context, in models.MaintenanceInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("maintenance.create", true); err != nil {
		return 0, err
	}
	v, err := f.vehicle(in.VehicleID)
	if err != nil {
		return 0, Validation("Vehicle is required")
	}
	v.Status = models.VehicleInShop
	id := f.id()
	f.Data.Maintenance = append(f.Data.Maintenance, models.MaintenanceLog{
		ID: id, VehicleID: models.Ref{ID: v.ID, Name: v.Name}, VehicleName: v.Name,
		Date: in.Date, ServiceType: in.ServiceType, Notes: in.Notes, Cost: in.Cost, State: models.MaintenanceOpen,
	})
	return id, nil
}

func (f *Fake) CompleteMaintenance(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("maintenance.complete", true); err != nil {
		return err
	}
	for i := range f.Data.Maintenance {
		l := &f.Data.Maintenance[i]
		if l.ID != id {
			continue
		}
		if l.State != models.MaintenanceOpen {
			return Validation("Log is already done")
		}
		l.State = models.MaintenanceDone
		if v, err := f.vehicle(l.VehicleID.ID); err == nil {
			v.Status = models.VehicleAvailable
		}
		return nil
	}
	return &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Log not found"}
}

func (f *Fake) Fuel(_ context.Context) ([]models.FuelLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("fuel", true); err != nil {
		return nil, err
	}
	return append([]models.FuelLog(nil), f.Data.Fuel...), nil
}

func (f *Fake) CreateFuel(_ context.Context, in models.FuelInput) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("fuel.create", true); err != nil {
		return 0, err
	}
	v, err := f.vehicle(in.VehicleID)
	if err != nil {
		return 0, Validation("Vehicle is required")
	}
	v.TotalFuelCost += in.Cost
	id := f.id()
	f.Data.Fuel = append(f.Data.Fuel, models.FuelLog{
		ID: id, VehicleID: models.Ref{ID: v.ID, Name: v.Name}, VehicleName: v.Name,
		Date: in.Date, Liters: in.Liters, Cost: in.Cost, OdometerAtFill: in.OdometerAtFill,
	})
	return id, nil
}

func (f *Fake) Analytics(_ context.Context) (models.Analytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("analytics", true); err != nil {
		return models.Analytics{}, err
	}
	return f.Data.Analytics, nil
}

func (f *Fake) Alerts(_ context.Context) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("alerts", true); err != nil {
		return nil, err
	}
	return append([]models.Alert(nil), f.Data.Alerts...), nil
}
