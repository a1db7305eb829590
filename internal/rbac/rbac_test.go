package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

func TestNonManagerIsBouncedHomeFromExcludedSections(t *testing.T) {
	for _, role := range models.AllRoles {
		if role == models.RoleManager {
			continue
		}
		for _, s := range Sections {
			if s.Roles.Has(role) {
				continue
			}
			d := Decide(role, true, s)
			assert.Equal(t, Redirect, d.Outcome, "%s -> %s", role, s.Key)
			assert.Equal(t, role.DashboardPath(), d.Location, "%s -> %s", role, s.Key)
		}
	}
}

func TestManagerReachesEverySection(t *testing.T) {
	for _, s := range Sections {
		s.Roles = 0
		assert.True(t, Decide(models.RoleManager, true, s).Allowed(), s.Key)
	}
	for _, r := range models.AllRoles {
		assert.True(t, Guard(models.RoleManager, true, r.DashboardPath()).Allowed(), r.String())
	}
}

func TestNoActiveRoleGoesToLogin(t *testing.T) {
	s, ok := SectionByKey("vehicles")
	require.True(t, ok)
	d := Decide(0, false, s)
	assert.Equal(t, Decision{Outcome: Redirect, Location: LoginPath}, d)
	assert.Equal(t, LoginPath, Guard(0, false, "/nowhere").Location)
}

func TestGuardIsIdempotent(t *testing.T) {
	paths := []string{"/maintenance", "/drivers", "/finance/dashboard", "/manager/dashboard", "/x/y"}
	for _, role := range models.AllRoles {
		for _, p := range paths {
			first := Guard(role, true, p)
			second := Guard(role, true, p)
			assert.Equal(t, first, second, "%s %s", role, p)
		}
	}
}

func TestGuardDeepLinks(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		path   string
		allow  bool
		target string
	}{
		{"finance maintenance", models.RoleFinance, "/maintenance", true, ""},
		{"finance maintenance subroute", models.RoleFinance, "/maintenance/12/done", true, ""},
		{"finance drivers", models.RoleFinance, "/drivers", true, ""},
		{"dispatcher fuel", models.RoleDispatcher, "/fuel", false, "/dispatcher/dashboard"},
		{"safety analytics", models.RoleSafety, "/analytics", false, "/safety/dashboard"},
		{"dispatcher other dashboard", models.RoleDispatcher, "/finance/dashboard", false, "/dispatcher/dashboard"},
		{"own dashboard", models.RoleSafety, "/safety/dashboard/", true, ""},
		{"unknown path", models.RoleFinance, "/does-not-exist", false, "/finance/dashboard"},
		{"root", models.RoleDispatcher, "/", false, "/dispatcher/dashboard"},
		{"prefix lookalike", models.RoleSafety, "/fuelish", false, "/safety/dashboard"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Guard(tc.role, true, tc.path)
			assert.Equal(t, tc.allow, d.Allowed())
			if !tc.allow {
				assert.Equal(t, tc.target, d.Location)
			}
		})
	}
}

func TestVisibleSections(t *testing.T) {
	keys := func(items []NavItem) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Key
		}
		return out
	}

	assert.Equal(t, []string{"dashboard", "vehicles", "trips", "maintenance", "fuel", "drivers", "analytics"},
		keys(VisibleSections(models.RoleManager)))
	assert.Equal(t, []string{"dashboard", "vehicles", "trips", "maintenance", "fuel", "drivers", "analytics"},
		keys(VisibleSections(models.RoleFinance)))
	assert.Equal(t, []string{"dashboard", "vehicles", "trips", "drivers"},
		keys(VisibleSections(models.RoleDispatcher)))
	assert.Empty(t, VisibleSections(0))

	nav := VisibleSections(models.RoleSafety)
	require.NotEmpty(t, nav)
	assert.Equal(t, "/safety/dashboard", nav[0].Target)
}

func TestVisibleSectionsAgreeWithGuard(t *testing.T) {
	for _, role := range models.AllRoles {
		for _, item := range VisibleSections(role) {
			assert.True(t, Guard(role, true, item.Target).Allowed(), "%s %s", role, item.Target)
		}
	}
}

func TestCan(t *testing.T) {
	assert.True(t, Can(models.RoleManager, VehicleCreate))
	assert.False(t, Can(models.RoleDispatcher, VehicleCreate))
	assert.True(t, Can(models.RoleDispatcher, TripTransition))
	assert.False(t, Can(models.RoleFinance, TripCreate))
	assert.True(t, Can(models.RoleSafety, DriverUpdate))
	assert.True(t, Can(models.RoleFinance, MaintenanceComplete))
	assert.False(t, Can(0, FuelCreate))

	caps := CapabilitiesFor(models.RoleFinance)
	assert.True(t, caps.Allowed("fuel.create"))
	assert.False(t, caps.Allowed("vehicle.delete"))
}
