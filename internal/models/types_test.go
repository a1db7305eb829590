package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefDecodesBackendShapes(t *testing.T) {
	var trip Trip
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"vehicle_id":[5,"Truck A"],"driver_id":false,"state":"Draft"}`), &trip))
	assert.Equal(t, int64(5), trip.VehicleID.ID)
	assert.Equal(t, "Truck A", trip.VehicleID.Name)
	assert.False(t, trip.DriverID.Set())

	var log MaintenanceLog
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"vehicle_id":9}`), &log))
	assert.Equal(t, int64(9), log.VehicleID.ID)
}

func TestDateDecoding(t *testing.T) {
	var d Driver
	require.NoError(t, json.Unmarshal([]byte(`{"license_expiry_date":"2027-03-14"}`), &d))
	assert.Equal(t, time.Date(2027, 3, 14, 0, 0, 0, 0, time.UTC), d.LicenseExpiryDate.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"license_expiry_date":"False"}`), &d))
	assert.True(t, d.LicenseExpiryDate.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"license_expiry_date":false}`), &d))
	assert.Equal(t, "", d.LicenseExpiryDate.String())
}
