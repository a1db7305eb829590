// internal/handlers/router.go
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	"github.com/SoniDharini/Fleet-Flow/internal/handlers/admin"
	"github.com/SoniDharini/Fleet-Flow/internal/middleware"
	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// Options carries the request guards shared by the route groups. A nil
// Limiter or Submit disables that guard.
type Options struct {
	SessionTTL time.Duration
	Limiter    *middleware.RateLimiter
	Submit     *middleware.SubmitTokens
}

func RegisterRoutes(mux *chi.Mux, h *Handler, opts Options) {
	ad := auth.Deps{Store: h.Store, Backend: h.Backend, Views: h.Views, TTL: opts.SessionTTL}
	limit := passThrough
	if opts.Limiter != nil {
		limit = opts.Limiter.Middleware
	}
	once := passThrough
	if opts.Submit != nil {
		once = middleware.SubmitOnce(opts.Submit)
	}

	// Sign-in and registration
	mux.Group(func(sr chi.Router) {
		sr.Use(middleware.OptionalAuth(h.Store))
		sr.Use(limit)
		sr.Get("/login", auth.LoginPage(ad))
		sr.Post("/login", auth.LoginHandler(ad))
		sr.Get("/register", auth.RegisterPage(ad))
		sr.Post("/register", auth.RegisterHandler(ad))
	})

	mux.Group(func(sr chi.Router) {
		// Apply auth to the whole group ONCE
		sr.Use(middleware.RequireAuth(h.Store))
		sr.Use(middleware.Denylist)
		sr.Use(limit)
		sr.Use(middleware.RequireActiveRole)

		sr.Get(middleware.RolePickerPath, auth.RolePicker(ad))
		sr.Post(middleware.RolePickerPath, auth.ChooseRole(ad))
		sr.Post("/logout", auth.LogoutHandler(ad))
		sr.Get("/auth/me", auth.MeHandler(ad))
		sr.Get("/alerts", h.Alerts)

		// Sections: the guard decides every read and write
		sr.Group(func(sr chi.Router) {
			sr.Use(middleware.Guard)
			sr.Use(once)

			sr.Get("/{role}/dashboard", h.Dashboard)

			sr.Route("/vehicles", func(sr chi.Router) {
				sr.Get("/", h.Vehicles)
				sr.Post("/new", h.CreateVehicle)
				sr.Post("/{id}/update", h.UpdateVehicle)
				sr.Post("/{id}/delete", h.DeleteVehicle)
				sr.Post("/{id}/toggle", h.ToggleVehicle)
			})
			sr.Route("/trips", func(sr chi.Router) {
				sr.Get("/", h.Trips)
				sr.Post("/new", h.CreateTrip)
				sr.Post("/{id}/{action}", h.TripAction)
			})
			sr.Route("/drivers", func(sr chi.Router) {
				sr.Get("/", h.Drivers)
				sr.Post("/{id}/status", h.DriverStatus)
				sr.Post("/{id}/score", h.DriverScore)
			})
			sr.Route("/maintenance", func(sr chi.Router) {
				sr.Get("/", h.Maintenance)
				sr.Post("/new", h.CreateMaintenance)
				sr.Post("/{id}/done", h.CompleteMaintenance)
			})
			sr.Route("/fuel", func(sr chi.Router) {
				sr.Get("/", h.Fuel)
				sr.Post("/new", h.CreateFuel)
			})
			sr.Get("/analytics", h.Analytics)
		})

		// Admin routes
		sr.Route("/admin", func(sr chi.Router) {
			sr.Use(middleware.RequireRole(models.RoleManager))
			sr.Get("/sessions", admin.ListSessionsHandler(h.Store))
			sr.Post("/sessions/{id}/revoke", admin.RevokeSessionHandler(h.Store))
		})
	})

	// "/", unknown paths and wrong-method deep links go wherever the caller belongs
	home := middleware.OptionalAuth(h.Store)(http.HandlerFunc(middleware.Home))
	mux.Get("/", home.ServeHTTP)
	mux.NotFound(home.ServeHTTP)
	mux.MethodNotAllowed(home.ServeHTTP)
}

func passThrough(next http.Handler) http.Handler { return next }
