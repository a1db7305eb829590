package fleet

import (
	"strings"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// OutOfService is the switch position shown on the registry.
func OutOfService(v models.Vehicle) bool {
	return v.Status == models.VehicleRetired || v.Status == models.VehicleInShop
}

// ServiceToggle returns the status the out-of-service switch sets. Retired
// goes back to Available; Available and In Shop go to Retired. A vehicle on a
// trip has no toggle.
func ServiceToggle(v models.Vehicle) (models.VehicleStatus, bool) {
	switch v.Status {
	case models.VehicleRetired:
		return models.VehicleAvailable, true
	case models.VehicleAvailable, models.VehicleInShop:
		return models.VehicleRetired, true
	}
	return "", false
}

// SearchVehicles matches the term against name or plate, case-insensitively.
func SearchVehicles(vs []models.Vehicle, term string) []models.Vehicle {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return vs
	}
	out := make([]models.Vehicle, 0, len(vs))
	for _, v := range vs {
		if strings.Contains(strings.ToLower(v.Name), term) || strings.Contains(strings.ToLower(v.LicensePlate), term) {
			out = append(out, v)
		}
	}
	return out
}

// CanComplete reports whether a maintenance log still offers its one-shot
// completion.
func CanComplete(l models.MaintenanceLog) bool { return l.State == models.MaintenanceOpen }
