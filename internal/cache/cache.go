// Package cache holds short-lived per-session copies of backend lookups
// (vehicles and drivers for form selects, alerts for the layout poll).
// Primary list pages are always fetched fresh; only secondary reads go
// through here, and mutations drop the affected keys.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/fleet"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the value for key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const keyPrefix = "fleetflow:cache:"

// Key scopes a resource to one console session.
func Key(scope string, r fleet.Resource) string {
	return keyPrefix + scope + ":" + string(r)
}

// Invalidate drops every key a mutation on r makes stale for scope.
func Invalidate(ctx context.Context, c Cache, scope string, r fleet.Resource) error {
	deps := fleet.Invalidates(r)
	keys := make([]string, len(deps))
	for i, d := range deps {
		keys[i] = Key(scope, d)
	}
	return c.Delete(ctx, keys...)
}

// Fetch returns the cached value for key or loads and stores it. Cache
// failures are logged and fall through to load.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c != nil {
		ok, err := c.Get(ctx, key, &v)
		if err != nil {
			slog.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		} else if ok {
			return v, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil && ttl > 0 {
		if err := c.Set(ctx, key, v, ttl); err != nil {
			slog.WarnContext(ctx, "cache set failed", "key", key, "err", err)
		}
	}
	return v, nil
}
