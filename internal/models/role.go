package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role is one of the four console roles. The zero value means "no role".
type Role uint8

const (
	RoleManager Role = iota + 1
	RoleDispatcher
	RoleSafety
	RoleFinance
)

// AllRoles lists every valid role in display order.
var AllRoles = []Role{RoleManager, RoleDispatcher, RoleSafety, RoleFinance}

var (
	ErrUnknownRole    = errors.New("unknown role")
	ErrRoleNotGranted = errors.New("role not granted to user")
	ErrNoRoles        = errors.New("user has no roles")
)

var roleNames = map[Role]string{
	RoleManager:    "manager",
	RoleDispatcher: "dispatcher",
	RoleSafety:     "safety",
	RoleFinance:    "finance",
}

var roleLabels = map[Role]string{
	RoleManager:    "Fleet Manager",
	RoleDispatcher: "Dispatcher",
	RoleSafety:     "Safety Officer",
	RoleFinance:    "Financial Analyst",
}

// ParseRole parses the backend's role key. Anything outside the four roles fails.
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == key {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return ""
}

// Label is the human title shown in the role picker.
func (r Role) Label() string { return roleLabels[r] }

// DashboardPath is the role's home section.
func (r Role) DashboardPath() string { return "/" + r.String() + "/dashboard" }

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is a capability set of roles.
type RoleSet uint8

// NewRoleSet builds a set from roles; invalid roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// ParseRoleSet parses role keys as returned by the backend, dropping unknown ones.
func ParseRoleSet(keys []string) RoleSet {
	var s RoleSet
	for _, k := range keys {
		if r, err := ParseRole(k); err == nil {
			s = s.With(r)
		}
	}
	return s
}

func (s RoleSet) With(r Role) RoleSet { return s | NewRoleSet(r) }

func (s RoleSet) Has(r Role) bool { return r.Valid() && s&(1<<r) != 0 }

// Allows reports whether r may use something gated to s. Manager is a superset role.
func (s RoleSet) Allows(r Role) bool { return r == RoleManager || s.Has(r) }

func (s RoleSet) Empty() bool { return s == 0 }

// Roles returns the members in AllRoles order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) Len() int { return len(s.Roles()) }

func (s RoleSet) MarshalJSON() ([]byte, error) {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return json.Marshal(names)
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	var out RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return err
		}
		out = out.With(r)
	}
	*s = out
	return nil
}
