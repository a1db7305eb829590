// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	BaseURL    string `mapstructure:"base_url"`
	ListenAddr string `mapstructure:"listen_addr"`
	Backend    struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"backend"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Cache struct {
		Store string        `mapstructure:"store"`
		TTL   time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
	Security struct {
		RequestID struct {
			TrustHeader bool `mapstructure:"trust_header"`
		} `mapstructure:"request_id"`
		Session struct {
			Store           string        `mapstructure:"store"`
			TTL             time.Duration `mapstructure:"ttl"`
			SweeperInterval time.Duration `mapstructure:"sweeper_interval"`
			CookieSecure    bool          `mapstructure:"cookie_secure"`
			SameSite        string        `mapstructure:"same_site"`
		} `mapstructure:"session"`
		RateLimit struct {
			Enabled           bool          `mapstructure:"enabled"`
			RequestsPerMinute int           `mapstructure:"rpm"`
			Burst             int           `mapstructure:"burst"`
			TTL               time.Duration `mapstructure:"ttl"`
		} `mapstructure:"rate_limit"`
		Denylist struct {
			Enabled bool    `mapstructure:"enabled"`
			Users   []int64 `mapstructure:"users"`
		} `mapstructure:"denylist"`
		SubmitTokenTTL time.Duration `mapstructure:"submit_token_ttl"`
	} `mapstructure:"security"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	UI struct {
		AlertPollInterval time.Duration `mapstructure:"alert_poll_interval"`
	} `mapstructure:"ui"`
}

var (
	ErrMissingBackendURL = errors.New("config error: backend.url/BACKEND_URL required")
	ErrStoreConfig       = errors.New("config error: store backend")
)

// Load reads .env, config.yaml and the environment, in that order of
// increasing precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("backend.timeout", "15s")
	// Sensible logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	// Security defaults
	v.SetDefault("security.request_id.trust_header", false)
	v.SetDefault("security.session.store", "memory")
	v.SetDefault("security.session.ttl", "8h")
	v.SetDefault("security.session.sweeper_interval", "5m")
	v.SetDefault("security.session.cookie_secure", false)
	v.SetDefault("security.session.same_site", "lax")
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.rpm", 120)
	v.SetDefault("security.rate_limit.burst", 60)
	v.SetDefault("security.rate_limit.ttl", "30m")
	v.SetDefault("security.denylist.enabled", true)
	v.SetDefault("security.submit_token_ttl", "30m")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080", "http://127.0.0.1:8080"})
	v.SetDefault("cache.store", "memory")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ui.alert_poll_interval", "30s")
}

func bindEnv(v *viper.Viper) {
	// explicit bindings
	_ = v.BindEnv("base_url", "BASE_URL")
	_ = v.BindEnv("listen_addr", "LISTEN_ADDR")
	_ = v.BindEnv("backend.url", "BACKEND_URL")
	_ = v.BindEnv("backend.timeout", "BACKEND_TIMEOUT")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("cache.store", "CACHE_STORE")
	_ = v.BindEnv("cache.ttl", "CACHE_TTL")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("security.request_id.trust_header", "REQUEST_ID_TRUST_HEADER")
	_ = v.BindEnv("security.session.store", "SESSION_STORE")
	_ = v.BindEnv("security.session.ttl", "SESSION_TTL")
	_ = v.BindEnv("security.session.sweeper_interval", "SESSION_SWEEPER_INTERVAL")
	_ = v.BindEnv("security.session.cookie_secure", "SESSION_COOKIE_SECURE")
	_ = v.BindEnv("security.session.same_site", "SESSION_SAME_SITE")
	_ = v.BindEnv("security.rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("security.rate_limit.rpm", "RATE_LIMIT_RPM")
	_ = v.BindEnv("security.rate_limit.burst", "RATE_LIMIT_BURST")
	_ = v.BindEnv("security.rate_limit.ttl", "RATE_LIMIT_TTL")
	_ = v.BindEnv("security.denylist.enabled", "DENYLIST_ENABLED")
	_ = v.BindEnv("security.denylist.users", "DENYLIST_USERS")
	_ = v.BindEnv("security.submit_token_ttl", "SUBMIT_TOKEN_TTL")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("ui.alert_poll_interval", "UI_ALERT_POLL_INTERVAL")
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("config error: %w", err)
	}
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.URL == "" {
		return c, ErrMissingBackendURL
	}
	c.Security.Session.Store = strings.ToLower(strings.TrimSpace(c.Security.Session.Store))
	switch c.Security.Session.Store {
	case "memory", "redis":
	case "postgres":
		if c.Database.URL == "" {
			return c, fmt.Errorf("%w: session store postgres needs database.url", ErrStoreConfig)
		}
	default:
		return c, fmt.Errorf("%w: unknown session store %q", ErrStoreConfig, c.Security.Session.Store)
	}
	c.Cache.Store = strings.ToLower(strings.TrimSpace(c.Cache.Store))
	switch c.Cache.Store {
	case "memory", "redis", "none":
	default:
		return c, fmt.Errorf("%w: unknown cache store %q", ErrStoreConfig, c.Cache.Store)
	}
	if c.Security.Session.TTL <= 0 {
		c.Security.Session.TTL = 8 * time.Hour
	}
	return c, nil
}
