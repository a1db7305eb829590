// Package backend is the console's client for the FleetFlow REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

const maxBody = 4 << 20

// Connector is the unauthenticated surface plus a way to act as a user.
type Connector interface {
	Login(ctx context.Context, login, password string) (LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context, creds []models.BackendCookie) error
	Me(ctx context.Context, creds []models.BackendCookie) (models.User, error)
	For(creds []models.BackendCookie) Fleet
}

// Fleet is the resource API, bound to one user's backend credentials.
type Fleet interface {
	Dashboard(ctx context.Context, f models.DashboardFilter) (models.DashboardStats, error)

	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	CreateVehicle(ctx context.Context, in models.VehicleInput) (int64, error)
	UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) error
	DeleteVehicle(ctx context.Context, id int64) error
	SetVehicleStatus(ctx context.Context, id int64, status models.VehicleStatus) error

	Drivers(ctx context.Context) ([]models.Driver, error)
	UpdateDriver(ctx context.Context, u models.DriverUpdate) error

	Trips(ctx context.Context) ([]models.Trip, error)
	CreateTrip(ctx context.Context, in models.TripInput) (int64, error)
	DispatchTrip(ctx context.Context, id int64) error
	TripAction(ctx context.Context, id int64, action string) error

	Maintenance(ctx context.Context) ([]models.MaintenanceLog, error)
	CreateMaintenance(ctx context.Context, in models.MaintenanceInput) (int64, error)
	CompleteMaintenance(ctx context.Context, id int64) error

	Fuel(ctx context.Context) ([]models.FuelLog, error)
	CreateFuel(ctx context.Context, in models.FuelInput) (int64, error)

	Analytics(ctx context.Context) (models.Analytics, error)
	Alerts(ctx context.Context) ([]models.Alert, error)
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	UserID  int64
	Name    string
	Roles   models.RoleSet
	Cookies []models.BackendCookie
}

// RegisterInput is the self-registration form. Role may be zero for a
// standard user with no console role.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

var registerRoleKeys = map[models.Role]string{
	models.RoleManager:    "FLEET_MANAGER",
	models.RoleDispatcher: "DISPATCHER",
	models.RoleSafety:     "SAFETY_OFFICER",
	models.RoleFinance:    "FINANCIAL_ANALYST",
}

// Client talks JSON over HTTP to the backend.
type Client struct {
	base *url.URL
	hc   *http.Client
}

var _ Connector = (*Client)(nil)

// New builds a client for baseURL. A nil hc uses NewHTTPClient(timeout).
func New(baseURL string, timeout time.Duration, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q: scheme and host required", baseURL)
	}
	if hc == nil {
		hc = NewHTTPClient(timeout)
	}
	return &Client{base: u, hc: hc}, nil
}

// POST /api/auth/login
func (c *Client) Login(ctx context.Context, login, password string) (LoginResult, error) {
	var out struct {
		UID   int64    `json:"uid"`
		Name  string   `json:"name"`
		Roles []string `json:"roles"`
	}
	body := map[string]string{"login": strings.TrimSpace(login), "password": password}
	resp, err := c.call(ctx, "login", true, nil, http.MethodPost, "/api/auth/login", nil, body, &out)
	if err != nil {
		return LoginResult{}, err
	}
	res := LoginResult{UserID: out.UID, Name: out.Name, Roles: models.ParseRoleSet(out.Roles)}
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}
		res.Cookies = append(res.Cookies, models.BackendCookie{Name: ck.Name, Value: ck.Value})
	}
	if len(res.Cookies) == 0 {
		return LoginResult{}, &Error{Op: "login", Kind: KindTransient, Status: resp.StatusCode, Message: "backend issued no session"}
	}
	return res, nil
}

// POST /api/auth/register
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	key, ok := registerRoleKeys[in.Role]
	if !ok {
		key = "STANDARD_USER"
	}
	body := map[string]string{
		"name":     strings.TrimSpace(in.Name),
		"email":    strings.TrimSpace(in.Email),
		"password": in.Password,
		"role":     key,
	}
	_, err := c.call(ctx, "register", true, nil, http.MethodPost, "/api/auth/register", nil, body, nil)
	return err
}

// POST /api/auth/logout
func (c *Client) Logout(ctx context.Context, creds []models.BackendCookie) error {
	_, err := c.call(ctx, "logout", false, creds, http.MethodPost, "/api/auth/logout", nil, struct{}{}, nil)
	return err
}

// GET /api/auth/me
func (c *Client) Me(ctx context.Context, creds []models.BackendCookie) (models.User, error) {
	var u models.User
	_, err := c.call(ctx, "me", false, creds, http.MethodGet, "/api/auth/me", nil, nil, &u)
	return u, err
}

// For binds the resource API to creds.
func (c *Client) For(creds []models.BackendCookie) Fleet {
	return &userClient{c: c, creds: creds}
}

// call performs one request. authOp marks login/register, where a 401 is a
// credential failure rather than an expired session.
func (c *Client) call(ctx context.Context, op string, authOp bool, creds []models.BackendCookie, method, path string, q url.Values, in, out any) (*http.Response, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range creds {
		req.AddCookie(ck.HTTPCookie())
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &Error{Op: op, Kind: KindTransient, Message: "The server could not be reached.", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransient, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(op, authOp, resp.StatusCode, raw)
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, &Error{Op: op, Kind: KindTransient, Status: resp.StatusCode, Message: "Unexpected response from server.", Err: err}
		}
	}
	return resp, nil
}

// IsCanceled reports whether err stems from the caller going away.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
