// Package views renders the console's HTML pages. Each page is parsed on top
// of a shared layout and defines the "content" block.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
	"github.com/SoniDharini/Fleet-Flow/internal/rbac"
)

//go:embed static
var staticFS embed.FS

// SubmitField is the hidden form field carrying the one-time submit token.
const SubmitField = "_submit"

// Page is the data every template receives.
type Page struct {
	Title   string
	Section string
	User    string
	Role    models.Role
	HasRole bool
	Roles   []models.Role
	Nav     []rbac.NavItem
	Can     rbac.Capabilities
	Flash   *models.Flash
	// Error is an inline form error shown above the form that failed.
	Error     string
	AlertPoll time.Duration
	Data      any
}

// AlertPollMillis is used by the layout script.
func (p Page) AlertPollMillis() int64 { return p.AlertPoll.Milliseconds() }

var pageSources = map[string]string{
	"login":       tmplLogin,
	"role":        tmplRolePicker,
	"register":    tmplRegister,
	"dashboard":   tmplDashboard,
	"vehicles":    tmplVehicles,
	"trips":       tmplTrips,
	"drivers":     tmplDrivers,
	"maintenance": tmplMaintenance,
	"fuel":        tmplFuel,
	"analytics":   tmplAnalytics,
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).Parse(tmplLayout)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageSources))
	for name, src := range pageSources {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(src); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// MustNew panics if a template fails to parse.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named page into a buffer so a template error never
// leaves a half-written response.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	t, ok := v.pages[name]
	if !ok {
		slog.ErrorContext(r.Context(), "unknown template", "name", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		slog.ErrorContext(r.Context(), "render failed", "name", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Static serves the embedded stylesheet and script.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

var funcs = template.FuncMap{
	"money":       money,
	"num":         num,
	"pct":         func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) + "%" },
	"slug":        slug,
	"submitToken": uuid.NewString,
	"submitField": func() string { return SubmitField },
	"selected": func(a, b any) template.HTMLAttr {
		if fmt.Sprint(a) == fmt.Sprint(b) {
			return "selected"
		}
		return ""
	},
	"vehicleStatuses": func() []models.VehicleStatus { return models.VehicleStatuses },
	"vehicleTypes":    func() []string { return models.VehicleTypes },
	"driverStatuses":  func() []models.DriverStatus { return models.DriverStatuses },
	"allRoles":        func() []models.Role { return models.AllRoles },
}

func num(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// money formats with two decimals and thousands separators.
func money(f float64) string {
	neg := f < 0
	s := strconv.FormatFloat(math.Abs(f), 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

// slug turns a status like "On Trip" into a class name.
func slug(v any) string {
	return strings.ReplaceAll(strings.ToLower(fmt.Sprint(v)), " ", "-")
}
