// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/SoniDharini/Fleet-Flow/internal/auth"
	"github.com/SoniDharini/Fleet-Flow/internal/backend"
	"github.com/SoniDharini/Fleet-Flow/internal/cache"
	"github.com/SoniDharini/Fleet-Flow/internal/config"
	"github.com/SoniDharini/Fleet-Flow/internal/handlers"
	"github.com/SoniDharini/Fleet-Flow/internal/logging"
	"github.com/SoniDharini/Fleet-Flow/internal/middleware"
	"github.com/SoniDharini/Fleet-Flow/internal/security"
	"github.com/SoniDharini/Fleet-Flow/internal/session"
	"github.com/SoniDharini/Fleet-Flow/internal/views"
)

func main() {
	// --- Load config (.env + config.yaml + env overrides) ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	// --- Logger ---
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format == "json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configure session cookie security (dev often needs Secure=false)
	auth.SetCookieSecurity(cfg.Security.Session.CookieSecure)
	auth.SetCookieSameSite(cfg.Security.Session.SameSite)

	if cfg.Security.Denylist.Enabled {
		security.Load(cfg.Security.Denylist.Users)
		slog.Debug("denylist loaded", "users", len(cfg.Security.Denylist.Users))
	}

	// --- Shared Redis client, only when a store asks for it ---
	var rdb *redis.Client
	if cfg.Security.Session.Store == "redis" || cfg.Cache.Store == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("redis ping error", "addr", cfg.Redis.Addr, "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Debug("redis connection ready", "addr", cfg.Redis.Addr)
	}

	// --- Session store ---
	interval := cfg.Security.Session.SweeperInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	var store session.Store
	switch cfg.Security.Session.Store {
	case "postgres":
		slog.Debug("connecting to database")
		db, err := session.OpenPostgres(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("db connect error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		ps := session.NewPostgresStore(db)
		if err := ps.Migrate(ctx); err != nil {
			slog.Error("db migrate error", "err", err)
			os.Exit(1)
		}
		session.StartSweeper(ctx, ps, interval)
		store = ps
	case "redis":
		// Redis expires keys itself
		store = session.NewRedisStore(rdb)
	default:
		ms := session.NewMemoryStore()
		session.StartSweeper(ctx, ms, interval)
		store = ms
	}
	slog.Info("session store ready", "store", cfg.Security.Session.Store)

	// --- Lookup cache ---
	var lookups cache.Cache
	switch cfg.Cache.Store {
	case "redis":
		lookups = cache.NewRedis(rdb)
	case "memory":
		mc := cache.NewMemory()
		mc.StartSweeper(ctx, time.Minute)
		lookups = mc
	}

	// --- Backend client ---
	api, err := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, nil)
	if err != nil {
		slog.Error("backend client", "err", err)
		os.Exit(1)
	}

	// --- Request guards ---
	var limiter *middleware.RateLimiter
	if cfg.Security.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst, cfg.Security.RateLimit.TTL)
		limiter.StartSweeper(ctx, time.Minute)
	}
	submits := middleware.NewSubmitTokens(cfg.Security.SubmitTokenTTL)
	submits.StartSweeper(ctx, time.Minute)

	// --- Router ---
	mux := chi.NewRouter()

	// Ensure request ID then log requests with slog
	mux.Use(middleware.RequestID(cfg.Security.RequestID.TrustHeader))
	mux.Use(middleware.EnrichLogger)
	mux.Use(middleware.SlogRequestLogger)

	// --- CORS middleware ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by browsers
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/static/*", http.StripPrefix("/static/", views.Static()))

	h := &handlers.Handler{
		Backend:   api,
		Store:     store,
		Cache:     lookups,
		CacheTTL:  cfg.Cache.TTL,
		Views:     views.MustNew(),
		AlertPoll: cfg.UI.AlertPollInterval,
	}
	handlers.RegisterRoutes(mux, h, handlers.Options{
		SessionTTL: cfg.Security.Session.TTL,
		Limiter:    limiter,
		Submit:     submits,
	})

	// --- Start server ---
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("listening", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL, "backend", cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}
