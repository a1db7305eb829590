package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
)

func render(t *testing.T, name string, p Page) string {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	w := httptest.NewRecorder()
	v.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, name, p)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.Body.String()
}

func appPage(role models.Role, data any) Page {
	return Page{
		Title:   "t",
		User:    "Asha",
		Role:    role,
		HasRole: true,
		Roles:   []models.Role{role},
		Nav:     rbac.VisibleSections(role),
		Can:     rbac.CapabilitiesFor(role),
		Data:    data,
	}
}

func TestAllPagesParse(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	for name := range pageSources {
		assert.Contains(t, v.pages, name)
	}
}

func TestLayoutNavFollowsRole(t *testing.T) {
	body := render(t, "dashboard", appPage(models.RoleDispatcher, DashboardData{}))
	assert.Contains(t, body, `href="/dispatcher/dashboard"`)
	assert.Contains(t, body, "Trip Dispatcher")
	assert.NotContains(t, body, "Service Logs")
	assert.NotContains(t, body, "Analytics &amp; ROI")
	assert.NotContains(t, body, "Switch role")
}

func TestVehicleControlsAreManagerOnly(t *testing.T) {
	data := VehiclesData{Rows: []VehicleRow{{
		Vehicle:   models.Vehicle{ID: 7, Name: "Van-05", LicensePlate: "GJ01", Status: models.VehicleAvailable, MaxLoadCapacity: 500},
		Toggle:    models.VehicleRetired,
		CanToggle: true,
	}}}

	body := render(t, "vehicles", appPage(models.RoleManager, data))
	assert.Contains(t, body, `action="/vehicles/new"`)
	assert.Contains(t, body, `action="/vehicles/7/toggle"`)
	assert.Contains(t, body, "Retire")
	assert.Contains(t, body, `name="_submit"`)

	body = render(t, "vehicles", appPage(models.RoleFinance, data))
	assert.Contains(t, body, "Van-05")
	assert.NotContains(t, body, `action="/vehicles/new"`)
	assert.NotContains(t, body, "/toggle")
}

func TestTripsRenderStepperAndDisabledDispatch(t *testing.T) {
	vehicles := []models.Vehicle{{ID: 1, Name: "Truck", MaxLoadCapacity: 1000, Status: models.VehicleAvailable}}
	trip := models.Trip{ID: 3, Name: "TRIP-3", State: models.TripDraft, VehicleID: models.Ref{ID: 1}, DriverID: models.Ref{ID: 2}, CargoWeight: 1200}
	cancelled := models.Trip{ID: 4, Name: "TRIP-4", State: models.TripCancelled}
	data := TripsData{
		Rows: []TripRow{
			{Trip: trip, Steps: fleet.Progress(trip.State), Controls: fleet.TripActions(trip, vehicles)},
			{Trip: cancelled, Steps: fleet.Progress(cancelled.State)},
		},
		Vehicles: vehicles,
		Form:     models.TripInput{VehicleID: 1, CargoWeight: 1200},
		Check:    fleet.CheckDraft(models.TripInput{VehicleID: 1, DriverID: 2, CargoWeight: 1200}, vehicles),
	}
	body := render(t, "trips", appPage(models.RoleDispatcher, data))

	assert.Contains(t, body, "Overweight! Cargo 1200 kg exceeds capacity 1000 kg")
	assert.Contains(t, body, `action="/trips/3/dispatch"`)
	assert.Contains(t, body, `disabled title="Cargo 1200 kg exceeds capacity 1000 kg"`)
	assert.Contains(t, body, `<li class="done active error">Cancelled</li>`)
	assert.NotContains(t, body, `action="/trips/4/`)
	assert.Equal(t, 1, strings.Count(body, `class="primary" disabled`))
}

func TestDriversShowExpiryAndScoreForms(t *testing.T) {
	rows := []fleet.DriverRow{{
		Driver:  models.Driver{ID: 5, Name: "Ravi", Status: models.DriverOnDuty, SafetyScore: 72},
		Licence: fleet.LicenceStatus{Known: true, Days: 12, Soon: true},
		Safety:  fleet.SafetyPoor,
	}}
	body := render(t, "drivers", appPage(models.RoleSafety, DriversData{Rows: rows}))
	assert.Contains(t, body, "12 days left")
	assert.Contains(t, body, "score-poor")
	assert.Contains(t, body, `action="/drivers/5/score"`)

	body = render(t, "drivers", appPage(models.RoleDispatcher, DriversData{Rows: rows}))
	assert.NotContains(t, body, `action="/drivers/5/score"`)
}

func TestAuthPagesRenderWithoutNav(t *testing.T) {
	body := render(t, "login", Page{Title: "Sign in", Error: "Invalid credentials", Data: LoginData{Login: "asha@fleet.io"}})
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="asha@fleet.io"`)
	assert.NotContains(t, body, `class="sidebar"`)
	assert.NotContains(t, body, "data-alert-poll")

	body = render(t, "role", Page{Title: "Role", User: "Asha", Data: RoleData{Roles: []models.Role{models.RoleDispatcher, models.RoleFinance}}})
	assert.Equal(t, 2, strings.Count(body, `name="role"`))
	assert.Contains(t, body, `value="dispatcher"`)
	assert.Contains(t, body, `value="finance"`)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", money(0))
	assert.Equal(t, "1,234,567.50", money(1234567.5))
	assert.Equal(t, "-950.00", money(-950))
	assert.Equal(t, "1200", num(1200))
	assert.Equal(t, "on-trip", slug(models.VehicleOnTrip))
}

func TestStaticServesAssets(t *testing.T) {
	w := httptest.NewRecorder()
	Static().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data-submit-once")
}
