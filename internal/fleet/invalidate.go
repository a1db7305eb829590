package fleet

// Resource names a backend collection the console caches or renders.
type Resource string

const (
	Vehicles    Resource = "vehicles"
	Drivers     Resource = "drivers"
	Trips       Resource = "trips"
	Maintenance Resource = "maintenance"
	Fuel        Resource = "fuel"
	Analytics   Resource = "analytics"
	Dashboard   Resource = "dashboard"
	Alerts      Resource = "alerts"
)

// A mutation on the key makes every listed resource stale. Completing a
// trip moves the vehicle's odometer and frees the driver; a maintenance log
// puts its vehicle in the shop and takes it out again.
var invalidates = map[Resource][]Resource{
	Vehicles:    {Vehicles, Dashboard, Analytics, Alerts},
	Drivers:     {Drivers, Alerts},
	Trips:       {Trips, Vehicles, Drivers, Dashboard, Analytics},
	Maintenance: {Maintenance, Vehicles, Dashboard, Analytics, Alerts},
	Fuel:        {Fuel, Vehicles, Analytics},
}

// Invalidates returns the resources made stale by a mutation on r, r itself
// first.
func Invalidates(r Resource) []Resource {
	if deps, ok := invalidates[r]; ok {
		out := make([]Resource, len(deps))
		copy(out, deps)
		return out
	}
	return []Resource{r}
}
