// internal/auth/local.go
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/backend"
	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

const rolePickerPath = "/login/role"

// Deps is what the sign-in handlers need.
type Deps struct {
	Store   session.Store
	Backend backend.Connector
	Views   *views.Renderer
	TTL     time.Duration
}

// Reasons the login page can be opened with.
const (
	ReasonExpired = "expired"
	ReasonNoRole  = "no_role"
	ReasonLogout  = "logout"
)

var reasonText = map[string]*models.Flash{
	ReasonExpired: {Kind: "warning", Message: "Your session has expired. Please sign in again."},
	ReasonNoRole:  {Kind: "error", Message: "Your account has no console role. Ask a fleet manager to grant one."},
	ReasonLogout:  {Kind: "info", Message: "You have been signed out."},
}

// LoginURL is the login page carrying a reason message.
func LoginURL(reason string) string {
	return rbac.LoginPath + "?reason=" + reason
}

func renderLogin(d Deps, w http.ResponseWriter, r *http.Request, status int, login, errMsg string) {
	d.Views.Render(w, r, status, "login", views.Page{
		Title: "Sign in",
		Flash: reasonText[r.URL.Query().Get("reason")],
		Error: errMsg,
		Data:  views.LoginData{Login: login},
	})
}

// GET /login
func LoginPage(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := httpctx.Session(r.Context()); ok {
			if active, ok := s.ActiveRole(); ok {
				http.Redirect(w, r, active.DashboardPath(), http.StatusFound)
				return
			}
		}
		renderLogin(d, w, r, http.StatusOK, "", "")
	}
}

// POST /login
// Form: login, password
func LoginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login := strings.TrimSpace(r.PostFormValue("login"))
		password := r.PostFormValue("password")
		if login == "" || password == "" {
			renderLogin(d, w, r, http.StatusUnprocessableEntity, login, "Enter your email and password.")
			return
		}

		res, err := d.Backend.Login(r.Context(), login, password)
		if err != nil {
			if backend.IsCanceled(err) {
				return
			}
			ip, _ := ClientIP(r)
			slog.InfoContext(r.Context(), "login failed", "login", login, "ip", ip.String(), "kind", backend.KindOf(err).String())
			status, msg := loginError(err)
			renderLogin(d, w, r, status, login, msg)
			return
		}
		startSession(d, w, r, login, res, false)
	}
}

func loginError(err error) (int, string) {
	if backend.IsKind(err, backend.KindAuthentication) {
		msg, _ := backend.Message(err)
		if msg == "" {
			msg = "Invalid email or password."
		}
		return http.StatusUnauthorized, msg
	}
	return httpserver.ErrorMessage(err, "Sign-in failed. Please try again.")
}

// startSession stores a console session for a successful backend login.
// With a single granted role, or when firstRole is set, that role becomes
// active; otherwise the user picks one.
func startSession(d Deps, w http.ResponseWriter, r *http.Request, login string, res backend.LoginResult, firstRole bool) {
	ctx := r.Context()
	if res.Roles.Empty() {
		// best effort: the backend session is useless without a role
		if err := d.Backend.Logout(ctx, res.Cookies); err != nil {
			slog.DebugContext(ctx, "backend logout failed", "err", err)
		}
		http.Redirect(w, r, LoginURL(ReasonNoRole), http.StatusSeeOther)
		return
	}

	now := time.Now()
	s := models.Session{
		UserID:  res.UserID,
		Name:    res.Name,
		Granted: res.Roles,
		Backend: res.Cookies,
		Created: now,
		Expiry:  now.Add(d.TTL),
	}
	if strings.Contains(login, "@") {
		s.Email = login
	}
	roles := res.Roles.Roles()
	if len(roles) == 1 || firstRole {
		_ = s.SetActiveRole(roles[0])
	}

	if old, ok := SessionID(r); ok {
		_ = d.Store.Delete(ctx, old)
	}
	sid, err := d.Store.Create(ctx, s)
	if err != nil {
		slog.ErrorContext(ctx, "session create failed", "err", err)
		renderLogin(d, w, r, http.StatusInternalServerError, login, "Could not start a session. Please try again.")
		return
	}
	SetSessionCookie(w, sid, s.Expiry)
	slog.InfoContext(ctx, "login", "user_id", s.UserID, "roles", len(roles))

	if active, ok := s.ActiveRole(); ok {
		http.Redirect(w, r, active.DashboardPath(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, rolePickerPath, http.StatusSeeOther)
}

func renderRolePicker(d Deps, w http.ResponseWriter, r *http.Request, status int, s *models.Session, errMsg string) {
	active, has := s.ActiveRole()
	d.Views.Render(w, r, status, "role", views.Page{
		Title:   "Choose a role",
		User:    s.Name,
		Role:    active,
		HasRole: has,
		Error:   errMsg,
		Data:    views.RoleData{Roles: s.Roles().Roles()},
	})
}

// GET /login/role
func RolePicker(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := httpctx.Session(r.Context())
		if !ok {
			http.Redirect(w, r, rbac.LoginPath, http.StatusFound)
			return
		}
		if s.Roles().Empty() {
			EndSession(d.Store, w, r)
			http.Redirect(w, r, LoginURL(ReasonNoRole), http.StatusFound)
			return
		}
		renderRolePicker(d, w, r, http.StatusOK, s, "")
	}
}

// POST /login/role
// Form: role
func ChooseRole(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := httpctx.Session(r.Context())
		sid, _ := httpctx.SessionID(r.Context())
		if !ok {
			http.Redirect(w, r, rbac.LoginPath, http.StatusSeeOther)
			return
		}
		role, err := models.ParseRole(r.PostFormValue("role"))
		if err == nil {
			err = s.SetActiveRole(role)
		}
		if err != nil {
			msg := "Choose one of your roles."
			if errors.Is(err, models.ErrNoRoles) {
				msg = "Your account has no console role."
			}
			renderRolePicker(d, w, r, http.StatusUnprocessableEntity, s, msg)
			return
		}
		_, err = d.Store.Update(r.Context(), sid, func(cur *models.Session) error {
			return cur.SetActiveRole(role)
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "session save failed", "err", err)
			renderRolePicker(d, w, r, http.StatusInternalServerError, s, "Could not switch role. Please try again.")
			return
		}
		http.Redirect(w, r, role.DashboardPath(), http.StatusSeeOther)
	}
}

func renderRegister(d Deps, w http.ResponseWriter, r *http.Request, status int, data views.RegisterData, errMsg string) {
	d.Views.Render(w, r, status, "register", views.Page{Title: "Register", Error: errMsg, Data: data})
}

// GET /register
func RegisterPage(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderRegister(d, w, r, http.StatusOK, views.RegisterData{}, "")
	}
}

// POST /register
// Form: name, email, password, confirm, role
func RegisterHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.RegisterData{
			Name:  strings.TrimSpace(r.PostFormValue("name")),
			Email: strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
			Role:  r.PostFormValue("role"),
		}
		password := r.PostFormValue("password")
		fail := func(msg string) { renderRegister(d, w, r, http.StatusUnprocessableEntity, data, msg) }

		switch {
		case data.Name == "" || data.Email == "" || password == "":
			fail("Name, email and password are required.")
			return
		case password != r.PostFormValue("confirm"):
			fail("Passwords do not match.")
			return
		}
		var role models.Role
		if data.Role != "" {
			var err error
			if role, err = models.ParseRole(data.Role); err != nil {
				fail("Unknown role.")
				return
			}
		}

		in := backend.RegisterInput{Name: data.Name, Email: data.Email, Password: password, Role: role}
		if err := d.Backend.Register(r.Context(), in); err != nil {
			if backend.IsCanceled(err) {
				return
			}
			status, msg := httpserver.ErrorMessage(err, "Registration failed. Please try again.")
			renderRegister(d, w, r, status, data, msg)
			return
		}

		res, err := d.Backend.Login(r.Context(), data.Email, password)
		if err != nil {
			if backend.IsCanceled(err) {
				return
			}
			slog.WarnContext(r.Context(), "login after register failed", "err", err)
			http.Redirect(w, r, rbac.LoginPath, http.StatusSeeOther)
			return
		}
		startSession(d, w, r, data.Email, res, true)
	}
}

// EndSession removes the console session and its cookie.
func EndSession(store session.Store, w http.ResponseWriter, r *http.Request) {
	if sid, ok := SessionID(r); ok {
		if err := store.Delete(context.WithoutCancel(r.Context()), sid); err != nil {
			slog.WarnContext(r.Context(), "session delete failed", "err", err)
		}
	}
	ClearSessionCookie(w)
}

// POST /logout
func LogoutHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := httpctx.Session(r.Context()); ok {
			// Best-effort backend logout
			if err := d.Backend.Logout(r.Context(), s.Backend); err != nil {
				slog.DebugContext(r.Context(), "backend logout failed", "err", err)
			}
		}
		EndSession(d.Store, w, r)
		http.Redirect(w, r, LoginURL(ReasonLogout), http.StatusSeeOther)
	}
}
