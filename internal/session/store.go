package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Store persists console sessions keyed by an opaque id.
type Store interface {
	// Create stores the session and returns a new opaque id.
	Create(ctx context.Context, s models.Session) (string, error)
	// Get returns the session for id if present and not expired.
	Get(ctx context.Context, id string) (models.Session, error)
	// Save replaces the session stored under id.
	Save(ctx context.Context, id string, s models.Session) error
	// Update re-reads the session under id and applies fn to it atomically
	// with respect to other writers. An error from fn aborts the write.
	Update(ctx context.Context, id string, fn func(*models.Session) error) (models.Session, error)
	Delete(ctx context.Context, id string) error
	// List returns a snapshot of all live sessions.
	List(ctx context.Context) ([]Entry, error)
}

// Sweeper is implemented by stores that need expired rows removed.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Entry is a snapshot of a single session in the store.
type Entry struct {
	ID      string
	Session models.Session
}

// StartSweeper launches a background goroutine that periodically removes
// expired sessions from the store. It stops when ctx is done.
func StartSweeper(ctx context.Context, s Sweeper, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.Sweep(ctx, time.Now())
				if err != nil {
					slog.Warn("session sweep failed", "err", err)
					continue
				}
				if n > 0 {
					slog.Debug("session sweep", "removed", n)
				}
			}
		}
	}()
}
