package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", time.Second, nil)
	require.Error(t, err)
}

func TestLoginCapturesBackendSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@fleet.io", body["login"])
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "odoo-1"})
		_, _ = w.Write([]byte(`{"status":"ok","uid":7,"name":"Ada","roles":["dispatcher","finance","pilot"]}`))
	}))

	res, err := c.Login(context.Background(), " ada@fleet.io ", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, []models.Role{models.RoleDispatcher, models.RoleFinance}, res.Roles.Roles())
	assert.Equal(t, []models.BackendCookie{{Name: "session_id", Value: "odoo-1"}}, res.Cookies)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"Invalid credentials","details":""}`))
	}))

	_, err := c.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthentication))
	msg, ok := Message(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid credentials", msg)
}

func TestResourceCallsReplayCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("session_id")
		if err != nil || ck.Value != "odoo-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Unauthorized"}`))
			return
		}
		assert.Equal(t, "rid-1", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[{"id":1,"name":"Truck","license_plate":"AB-1","status":"Available","max_load_capacity":1000}]`))
	}))

	ctx := httpctx.WithRequestID(context.Background(), "rid-1")
	vs, err := c.For([]models.BackendCookie{{Name: "session_id", Value: "odoo-1"}}).Vehicles(ctx)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, models.VehicleAvailable, vs[0].Status)

	_, err = c.For(nil).Vehicles(ctx)
	assert.True(t, IsKind(err, KindSessionExpired))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   Kind
		msg    string
	}{
		{400, `{"code":400,"message":"Cargo weight 1200.0 exceeds vehicle capacity 1000.0","details":""}`, KindValidation, "Cargo weight 1200.0 exceeds vehicle capacity 1000.0"},
		{403, `{"code":403,"message":"Forbidden"}`, KindAuthorization, "Forbidden"},
		{404, `{"error":"Not found"}`, KindNotFound, "Not found"},
		{502, `<html>bad gateway</html>`, KindTransient, "Bad Gateway"},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			_, err := c.For(nil).CreateTrip(context.Background(), models.TripInput{VehicleID: 1})
			require.Error(t, err)
			var be *Error
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tc.kind, be.Kind)
			assert.Equal(t, tc.status, be.Status)
			assert.Equal(t, tc.msg, be.Message)
		})
	}
}

func TestTransportFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, time.Second, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.For(nil).Trips(context.Background())
	assert.True(t, IsKind(err, KindTransient))
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.For(nil).Fuel(ctx)
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
}

func TestMutationBodies(t *testing.T) {
	var got map[string]any
	var path string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status":"ok","id":42}`))
	}))
	f := c.For(nil)
	ctx := context.Background()

	require.NoError(t, f.TripAction(ctx, 3, "cancel"))
	assert.Equal(t, "/api/trips/action", path)
	assert.Equal(t, map[string]any{"trip_id": float64(3), "action": "cancel"}, got)

	require.NoError(t, f.CompleteMaintenance(ctx, 9))
	assert.Equal(t, map[string]any{"log_id": float64(9)}, got)

	require.NoError(t, f.SetVehicleStatus(ctx, 5, models.VehicleRetired))
	assert.Equal(t, map[string]any{"vehicle_id": float64(5), "status": "Retired"}, got)

	require.NoError(t, f.UpdateVehicle(ctx, 5, models.VehicleInput{Name: "Van", LicensePlate: "P-1"}))
	assert.Equal(t, "/api/vehicles/update", path)
	assert.Equal(t, float64(5), got["id"])
	assert.Equal(t, "Van", got["name"])

	id, err := f.CreateFuel(ctx, models.FuelInput{VehicleID: 5, Liters: 40, Cost: 80})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	score := 88.0
	require.NoError(t, f.UpdateDriver(ctx, models.DriverUpdate{DriverID: 2, SafetyScore: &score}))
	assert.Equal(t, map[string]any{"driver_id": float64(2), "safety_score": float64(88)}, got)
}

func TestDashboardFilters(t *testing.T) {
	var query string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"active_fleet":2,"total_vehicles":4,"utilization_rate":50}`))
	}))
	stats, err := c.For(nil).Dashboard(context.Background(), models.DashboardFilter{Region: "north", Type: "all"})
	require.NoError(t, err)
	assert.Equal(t, "region=north", query)
	assert.Equal(t, 4, stats.TotalVehicles)
}

func TestRegisterMapsRoleKey(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["email"] == "taken@fleet.io" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"message":"Email is already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","id":3}`))
	}))

	require.NoError(t, c.Register(context.Background(), RegisterInput{Name: "A", Email: "a@fleet.io", Password: "p", Role: models.RoleSafety}))
	assert.Equal(t, "SAFETY_OFFICER", got["role"])

	require.NoError(t, c.Register(context.Background(), RegisterInput{Name: "B", Email: "b@fleet.io", Password: "p"}))
	assert.Equal(t, "STANDARD_USER", got["role"])

	err := c.Register(context.Background(), RegisterInput{Name: "C", Email: "taken@fleet.io", Password: "p"})
	assert.True(t, IsKind(err, KindValidation))
}
