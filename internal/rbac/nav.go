package rbac

import "github.com/SoniDharini/Fleet-Flow/internal/models"

// NavItem is one rendered menu entry.
type NavItem struct {
	Key    string
	Label  string
	Icon   string
	Target string
}

// VisibleSections filters Sections by the active role, preserving order.
func VisibleSections(active models.Role) []NavItem {
	if !active.Valid() {
		return nil
	}
	out := make([]NavItem, 0, len(Sections))
	for _, s := range Sections {
		if !s.Roles.Allows(active) {
			continue
		}
		out = append(out, NavItem{Key: s.Key, Label: s.Label, Icon: s.Icon, Target: s.Target(active)})
	}
	return out
}

// Action is a mutating control inside a section.
type Action string

const (
	VehicleCreate       Action = "vehicle.create"
	VehicleUpdate       Action = "vehicle.update"
	VehicleDelete       Action = "vehicle.delete"
	VehicleToggle       Action = "vehicle.toggle"
	TripCreate          Action = "trip.create"
	TripTransition      Action = "trip.transition"
	DriverUpdate        Action = "driver.update"
	MaintenanceCreate   Action = "maintenance.create"
	MaintenanceComplete Action = "maintenance.complete"
	FuelCreate          Action = "fuel.create"
)

// Mirrors the backend's per-endpoint checks. An empty set means manager only.
var actionRoles = map[Action]models.RoleSet{
	VehicleCreate:       0,
	VehicleUpdate:       0,
	VehicleDelete:       0,
	VehicleToggle:       0,
	TripCreate:          models.NewRoleSet(models.RoleDispatcher),
	TripTransition:      models.NewRoleSet(models.RoleDispatcher),
	DriverUpdate:        models.NewRoleSet(models.RoleSafety),
	MaintenanceCreate:   models.NewRoleSet(models.RoleFinance),
	MaintenanceComplete: models.NewRoleSet(models.RoleFinance),
	FuelCreate:          models.NewRoleSet(models.RoleFinance),
}

// Can reports whether the control for a should be rendered. It is not an
// authorization check; the backend decides.
func Can(active models.Role, a Action) bool {
	set, ok := actionRoles[a]
	if !ok || !active.Valid() {
		return false
	}
	return set.Allows(active)
}

// Capabilities is the set of controls a page may render.
type Capabilities map[Action]bool

// Allowed looks an action up by name, for use from templates.
func (c Capabilities) Allowed(name string) bool { return c[Action(name)] }

func CapabilitiesFor(active models.Role) Capabilities {
	c := make(Capabilities, len(actionRoles))
	for a := range actionRoles {
		c[a] = Can(active, a)
	}
	return c
}
