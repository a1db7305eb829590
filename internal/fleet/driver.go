package fleet

import (
	"math"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

const ExpiringSoonDays = 30

// LicenceStatus is derived for display only; it is never sent back.
type LicenceStatus struct {
	Known   bool
	Days    int
	Expired bool
	Soon    bool
}

// Licence computes days to expiry rounded up; zero or fewer days is expired.
func Licence(d models.Driver, now time.Time) LicenceStatus {
	if d.LicenseExpiryDate.IsZero() {
		return LicenceStatus{}
	}
	diff := d.LicenseExpiryDate.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	return LicenceStatus{
		Known:   true,
		Days:    days,
		Expired: days <= 0,
		Soon:    days > 0 && days <= ExpiringSoonDays,
	}
}

type SafetyBand string

const (
	SafetyGood    SafetyBand = "good"
	SafetyWarning SafetyBand = "warning"
	SafetyPoor    SafetyBand = "poor"
)

func Safety(score float64) SafetyBand {
	switch {
	case score >= 90:
		return SafetyGood
	case score >= 75:
		return SafetyWarning
	default:
		return SafetyPoor
	}
}

// DriverRow is a driver with its presentation derivations.
type DriverRow struct {
	models.Driver
	Licence LicenceStatus
	Safety  SafetyBand
}

func DriverRows(ds []models.Driver, now time.Time) []DriverRow {
	out := make([]DriverRow, len(ds))
	for i, d := range ds {
		out[i] = DriverRow{Driver: d, Licence: Licence(d, now), Safety: Safety(d.SafetyScore)}
	}
	return out
}

// ValidSafetyScore bounds a submitted score to 0..100.
func ValidSafetyScore(s float64) bool { return s >= 0 && s <= 100 }

func ValidDriverStatus(s models.DriverStatus) bool {
	for _, v := range models.DriverStatuses {
		if v == s {
			return true
		}
	}
	return false
}
