package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

func actions(cs []TripControl) []TripAction {
	out := make([]TripAction, len(cs))
	for i, c := range cs {
		out[i] = c.Action
	}
	return out
}

func TestTripActionsFollowState(t *testing.T) {
	vehicles := []models.Vehicle{{ID: 1, MaxLoadCapacity: 1000}}
	base := models.Trip{VehicleID: models.Ref{ID: 1}, DriverID: models.Ref{ID: 2}, CargoWeight: 500}

	tests := []struct {
		state models.TripState
		want  []TripAction
	}{
		{models.TripDraft, []TripAction{ActionDispatch}},
		{models.TripDispatched, []TripAction{ActionComplete, ActionCancel}},
		{models.TripCompleted, []TripAction{}},
		{models.TripCancelled, []TripAction{}},
	}
	for _, tc := range tests {
		t.Run(string(tc.state), func(t *testing.T) {
			trip := base
			trip.State = tc.state
			got := TripActions(trip, vehicles)
			assert.Equal(t, tc.want, actions(got))
			for _, c := range got {
				assert.False(t, c.Disabled)
			}
		})
	}
}

func TestDispatchDisabledWithReason(t *testing.T) {
	vehicles := []models.Vehicle{{ID: 1, MaxLoadCapacity: 1000}}

	noDriver := models.Trip{State: models.TripDraft, VehicleID: models.Ref{ID: 1}}
	c := TripActions(noDriver, vehicles)
	require.Len(t, c, 1)
	assert.True(t, c[0].Disabled)
	assert.Contains(t, c[0].Reason, "driver")

	heavy := models.Trip{State: models.TripDraft, VehicleID: models.Ref{ID: 1}, DriverID: models.Ref{ID: 3}, CargoWeight: 1200}
	c = TripActions(heavy, vehicles)
	require.Len(t, c, 1)
	assert.True(t, c[0].Disabled)
	assert.Equal(t, "Cargo 1200 kg exceeds capacity 1000 kg", c[0].Reason)
}

func TestAllowedMatchesControls(t *testing.T) {
	vehicles := []models.Vehicle{{ID: 1, MaxLoadCapacity: 1000}}

	ok, reason := Allowed(models.Trip{State: models.TripDraft, VehicleID: models.Ref{ID: 1}}, vehicles, ActionDispatch)
	assert.False(t, ok)
	assert.Equal(t, "Assign a driver first", reason)

	ready := models.Trip{State: models.TripDraft, VehicleID: models.Ref{ID: 1}, DriverID: models.Ref{ID: 3}, CargoWeight: 400}
	ok, _ = Allowed(ready, vehicles, ActionDispatch)
	assert.True(t, ok)

	ok, reason = Allowed(ready, vehicles, ActionComplete)
	assert.False(t, ok)
	assert.Equal(t, UnavailableReason, reason)

	ok, _ = Allowed(models.Trip{State: models.TripCompleted}, vehicles, ActionCancel)
	assert.False(t, ok)
}

func TestNextIsOneWay(t *testing.T) {
	to, err := Next(models.TripDraft, ActionDispatch)
	require.NoError(t, err)
	assert.Equal(t, models.TripDispatched, to)

	to, err = Next(models.TripDispatched, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.TripCancelled, to)

	for _, bad := range []struct {
		from models.TripState
		a    TripAction
	}{
		{models.TripDraft, ActionComplete},
		{models.TripDispatched, ActionDispatch},
		{models.TripCompleted, ActionCancel},
		{models.TripCancelled, ActionComplete},
	} {
		_, err := Next(bad.from, bad.a)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s from %s", bad.a, bad.from)
	}

	_, err = ParseTripAction("reopen")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProgress(t *testing.T) {
	p := Progress(models.TripDraft)
	assert.True(t, p[0].Active)
	assert.False(t, p[0].Done)

	p = Progress(models.TripDispatched)
	assert.True(t, p[0].Done)
	assert.True(t, p[1].Active)

	p = Progress(models.TripCompleted)
	assert.Equal(t, "Completed", p[2].Label)
	assert.True(t, p[2].Done)
	assert.False(t, p[2].Error)

	p = Progress(models.TripCancelled)
	assert.Equal(t, "Cancelled", p[2].Label)
	assert.True(t, p[2].Error)
}

func TestCheckDraftOverweight(t *testing.T) {
	vehicles := []models.Vehicle{{ID: 4, Name: "Van-05", MaxLoadCapacity: 1000, Status: models.VehicleAvailable}}

	over := CheckDraft(models.TripInput{VehicleID: 4, DriverID: 9, CargoWeight: 1200}, vehicles)
	assert.True(t, over.Overweight)
	assert.False(t, over.CanSubmit)
	assert.Contains(t, over.Message, "Overweight")

	ok := CheckDraft(models.TripInput{VehicleID: 4, DriverID: 9, CargoWeight: 800}, vehicles)
	assert.False(t, ok.Overweight)
	assert.True(t, ok.CanSubmit)

	exact := CheckDraft(models.TripInput{VehicleID: 4, DriverID: 9, CargoWeight: 1000}, vehicles)
	assert.True(t, exact.CanSubmit)

	missing := CheckDraft(models.TripInput{VehicleID: 4, CargoWeight: 800}, vehicles)
	assert.False(t, missing.CanSubmit)
	assert.Equal(t, []string{"driver"}, missing.Missing)
}

func TestDispatchableFilters(t *testing.T) {
	vs := DispatchableVehicles([]models.Vehicle{
		{ID: 1, Status: models.VehicleAvailable},
		{ID: 2, Status: models.VehicleInShop},
		{ID: 3, Status: models.VehicleOnTrip},
	})
	require.Len(t, vs, 1)
	assert.Equal(t, int64(1), vs[0].ID)

	ds := DispatchableDrivers([]models.Driver{
		{ID: 1, Status: models.DriverSuspended},
		{ID: 2, Status: models.DriverOnDuty},
	})
	require.Len(t, ds, 1)
	assert.Equal(t, int64(2), ds[0].ID)
}

func TestLicence(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		expiry  models.Date
		days    int
		expired bool
		soon    bool
	}{
		{"past", models.NewDate(2026, 4, 1), -30, true, false},
		{"today", models.NewDate(2026, 5, 1), 0, true, false},
		{"tomorrow", models.NewDate(2026, 5, 2), 1, false, true},
		{"thirty days", models.NewDate(2026, 5, 31), 30, false, true},
		{"far", models.NewDate(2027, 1, 1), 245, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := Licence(models.Driver{LicenseExpiryDate: tc.expiry}, now)
			assert.True(t, l.Known)
			assert.Equal(t, tc.days, l.Days)
			assert.Equal(t, tc.expired, l.Expired)
			assert.Equal(t, tc.soon, l.Soon)
		})
	}

	assert.False(t, Licence(models.Driver{}, now).Known)
}

func TestSafetyBands(t *testing.T) {
	assert.Equal(t, SafetyGood, Safety(90))
	assert.Equal(t, SafetyWarning, Safety(89.5))
	assert.Equal(t, SafetyWarning, Safety(75))
	assert.Equal(t, SafetyPoor, Safety(74))
}

func TestServiceToggle(t *testing.T) {
	next, ok := ServiceToggle(models.Vehicle{Status: models.VehicleAvailable})
	require.True(t, ok)
	assert.Equal(t, models.VehicleRetired, next)

	next, ok = ServiceToggle(models.Vehicle{Status: models.VehicleInShop})
	require.True(t, ok)
	assert.Equal(t, models.VehicleRetired, next)

	next, ok = ServiceToggle(models.Vehicle{Status: models.VehicleRetired})
	require.True(t, ok)
	assert.Equal(t, models.VehicleAvailable, next)

	_, ok = ServiceToggle(models.Vehicle{Status: models.VehicleOnTrip})
	assert.False(t, ok)
}

func TestSearchVehicles(t *testing.T) {
	vs := []models.Vehicle{
		{ID: 1, Name: "Truck Alpha", LicensePlate: "MH-12-AB-1234"},
		{ID: 2, Name: "Van Beta", LicensePlate: "KA-01-XY-9999"},
	}
	assert.Len(t, SearchVehicles(vs, ""), 2)
	assert.Len(t, SearchVehicles(vs, "alpha"), 1)
	got := SearchVehicles(vs, "ka-01")
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestRankByROI(t *testing.T) {
	stats := []models.VehicleStat{
		{ID: 1, AcquisitionCost: 0, VehicleRevenue: 500, Status: models.VehicleOnTrip},
		{ID: 2, AcquisitionCost: 1000, VehicleRevenue: 1500, TotalOperationalCost: 300, Status: models.VehicleAvailable},
		{ID: 3, AcquisitionCost: 1000, VehicleRevenue: 0, TotalOperationalCost: 100, Status: models.VehicleAvailable},
	}
	ranked := RankByROI(stats)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].ID)
	assert.InDelta(t, 120.0, ranked[0].ROI, 1e-9)
	assert.Equal(t, int64(1), ranked[1].ID)
	assert.Equal(t, int64(3), ranked[2].ID)
	assert.InDelta(t, -10.0, ranked[2].ROI, 1e-9)
	assert.True(t, ranked[2].DeadStock)
	assert.False(t, ranked[0].DeadStock)

	sum := Summarize(models.Analytics{TotalRevenue: 2000, TotalFuelCost: 300, TotalMaintenanceCost: 200, VehicleStats: stats})
	assert.InDelta(t, 1500.0, sum.NetProfit, 1e-9)
	assert.Equal(t, 1, sum.DeadStock)
}

func TestInvalidates(t *testing.T) {
	assert.Contains(t, Invalidates(Maintenance), Vehicles)
	assert.Contains(t, Invalidates(Trips), Drivers)
	assert.Equal(t, Fuel, Invalidates(Fuel)[0])
	assert.Equal(t, []Resource{Alerts}, Invalidates(Alerts))

	got := Invalidates(Vehicles)
	got[0] = "mutated"
	assert.Equal(t, Vehicles, Invalidates(Vehicles)[0])
}

func TestCanComplete(t *testing.T) {
	assert.True(t, CanComplete(models.MaintenanceLog{State: models.MaintenanceOpen}))
	assert.False(t, CanComplete(models.MaintenanceLog{State: models.MaintenanceDone}))
}
