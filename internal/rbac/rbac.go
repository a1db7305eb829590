// Package rbac holds the console's section table, the route guard and the
// navigation derived from the active role. Everything here is a pure function
// of its inputs.
package rbac

import (
	"strings"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

const LoginPath = "/login"

// Section is a navigable area of the console.
type Section struct {
	Key   string
	Label string
	Icon  string
	// Path is the route prefix. Empty for the per-role dashboard.
	Path  string
	Roles models.RoleSet
}

var all = models.NewRoleSet(models.AllRoles...)

// Sections is the fixed navigation order.
var Sections = []Section{
	{Key: "dashboard", Label: "Command Center", Icon: "dashboard", Roles: all},
	{Key: "vehicles", Label: "Vehicle Registry", Icon: "truck", Path: "/vehicles", Roles: all},
	{Key: "trips", Label: "Trip Dispatcher", Icon: "route", Path: "/trips", Roles: all},
	{Key: "maintenance", Label: "Service Logs", Icon: "wrench", Path: "/maintenance", Roles: models.NewRoleSet(models.RoleManager, models.RoleFinance)},
	{Key: "fuel", Label: "Fuel & Expenses", Icon: "fuel", Path: "/fuel", Roles: models.NewRoleSet(models.RoleManager, models.RoleFinance)},
	{Key: "drivers", Label: "Driver Profiles", Icon: "users", Path: "/drivers", Roles: all},
	{Key: "analytics", Label: "Analytics & ROI", Icon: "chart", Path: "/analytics", Roles: models.NewRoleSet(models.RoleManager, models.RoleFinance)},
}

// SectionByKey returns the declared section with the given key.
func SectionByKey(key string) (Section, bool) {
	for _, s := range Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// Target is the route a nav entry links to for the given role.
func (s Section) Target(active models.Role) string {
	if s.Path == "" {
		return active.DashboardPath()
	}
	return s.Path
}

type Outcome uint8

const (
	Allow Outcome = iota + 1
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the guard's verdict. Location is set for Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Home is where a caller without access lands.
func Home(active models.Role, hasActive bool) Decision {
	if !hasActive || !active.Valid() {
		return Decision{Outcome: Redirect, Location: LoginPath}
	}
	return Decision{Outcome: Redirect, Location: active.DashboardPath()}
}

// Decide allows the section when the active role is manager or is in the
// section's role set, and otherwise redirects home.
func Decide(active models.Role, hasActive bool, s Section) Decision {
	if !hasActive || !active.Valid() {
		return Home(active, hasActive)
	}
	if s.Roles.Allows(active) {
		return Decision{Outcome: Allow}
	}
	return Home(active, hasActive)
}

// Resolve maps a request path onto its section. Per-role dashboards resolve
// to a dashboard section gated to that role alone.
func Resolve(path string) (Section, bool) {
	p := "/" + strings.Trim(path, "/")
	if role, ok := dashboardRole(p); ok {
		s, _ := SectionByKey("dashboard")
		s.Path = role.DashboardPath()
		s.Roles = models.NewRoleSet(role)
		return s, true
	}
	for _, s := range Sections {
		if s.Path == "" {
			continue
		}
		if p == s.Path || strings.HasPrefix(p, s.Path+"/") {
			return s, true
		}
	}
	return Section{}, false
}

// Guard evaluates the decision for a request path. Unknown paths never
// produce an error page; they land on the active role's dashboard.
func Guard(active models.Role, hasActive bool, path string) Decision {
	s, ok := Resolve(path)
	if !ok {
		return Home(active, hasActive)
	}
	return Decide(active, hasActive, s)
}

func dashboardRole(p string) (models.Role, bool) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) != 2 || parts[1] != "dashboard" {
		return 0, false
	}
	r, err := models.ParseRole(parts[0])
	if err != nil {
		return 0, false
	}
	return r, true
}
