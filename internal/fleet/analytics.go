package fleet

import (
	"sort"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// VehicleROI is a vehicle stat with its return on investment.
type VehicleROI struct {
	models.VehicleStat
	ROI       float64
	DeadStock bool
}

// ROI is (revenue - operational cost) / acquisition cost as a percentage,
// zero when the acquisition cost is unknown.
func ROI(s models.VehicleStat) float64 {
	if s.AcquisitionCost <= 0 {
		return 0
	}
	return (s.VehicleRevenue - s.TotalOperationalCost) / s.AcquisitionCost * 100
}

// DeadStock flags an Available vehicle that has never earned revenue.
func DeadStock(s models.VehicleStat) bool {
	return s.Status == models.VehicleAvailable && s.VehicleRevenue == 0
}

// RankByROI returns stats with ROI, highest first. Ties keep backend order.
func RankByROI(stats []models.VehicleStat) []VehicleROI {
	out := make([]VehicleROI, len(stats))
	for i, s := range stats {
		out[i] = VehicleROI{VehicleStat: s, ROI: ROI(s), DeadStock: DeadStock(s)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ROI > out[j].ROI })
	return out
}

// Summary holds the analytics page totals.
type Summary struct {
	TotalRevenue         float64
	TotalFuelCost        float64
	TotalMaintenanceCost float64
	NetProfit            float64
	DeadStock            int
	Vehicles             []VehicleROI
}

func Summarize(a models.Analytics) Summary {
	ranked := RankByROI(a.VehicleStats)
	dead := 0
	for _, v := range ranked {
		if v.DeadStock {
			dead++
		}
	}
	return Summary{
		TotalRevenue:         a.TotalRevenue,
		TotalFuelCost:        a.TotalFuelCost,
		TotalMaintenanceCost: a.TotalMaintenanceCost,
		NetProfit:            a.TotalRevenue - a.TotalFuelCost - a.TotalMaintenanceCost,
		DeadStock:            dead,
		Vehicles:             ranked,
	}
}
