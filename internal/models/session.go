package models

import (
	"net/http"
	"time"
)

// BackendCookie is a cookie issued by the FleetFlow backend at login. It is
// replayed on every backend call made for the session.
type BackendCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c BackendCookie) HTTPCookie() *http.Cookie {
	return &http.Cookie{Name: c.Name, Value: c.Value}
}

// Session is the console-side record of an authenticated browser session.
type Session struct {
	UserID  int64           `json:"user_id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Granted RoleSet         `json:"roles"`
	Active  Role            `json:"active_role,omitempty"`
	Backend []BackendCookie `json:"backend,omitempty"`
	Flash   *Flash          `json:"flash,omitempty"`
	Created time.Time       `json:"created"`
	Expiry  time.Time       `json:"expiry"`
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"` // error, warning, info, success
	Message string `json:"message"`
}

func (s *Session) Roles() RoleSet { return s.Granted }

// ActiveRole returns the role the session operates under, if one is chosen.
func (s *Session) ActiveRole() (Role, bool) {
	if s.Active.Valid() && s.Granted.Has(s.Active) {
		return s.Active, true
	}
	return 0, false
}

// SetActiveRole fails unless r is one of the granted roles.
func (s *Session) SetActiveRole(r Role) error {
	if s.Granted.Empty() {
		return ErrNoRoles
	}
	if !r.Valid() {
		return ErrUnknownRole
	}
	if !s.Granted.Has(r) {
		return ErrRoleNotGranted
	}
	s.Active = r
	return nil
}

func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && s.Expiry.Before(now)
}

// AddFlash replaces any pending flash.
func (s *Session) AddFlash(kind, msg string) { s.Flash = &Flash{Kind: kind, Message: msg} }

// PopFlash returns and clears the pending flash.
func (s *Session) PopFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}
