// Package httpctx holds the request-scoped values shared by middleware,
// handlers, the backend client and the log handler.
package httpctx

import (
	"context"
	"sync"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

type ctxKeyRequestID struct{}
type ctxKeySession struct{}
type ctxKeySessionID struct{}
type ctxKeyLogFields struct{}

// WithRequestID stores the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, id)
}

// RequestID returns the request id from context if set.
func RequestID(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKeyRequestID{}).(string)
	return s, ok && s != ""
}

// WithSession stores the loaded console session and its store id.
func WithSession(ctx context.Context, id string, s *models.Session) context.Context {
	if f, ok := LogFieldsFrom(ctx); ok {
		r, _ := s.ActiveRole()
		f.Set(s.UserID, r)
	}
	ctx = context.WithValue(ctx, ctxKeySessionID{}, id)
	return context.WithValue(ctx, ctxKeySession{}, s)
}

// Session returns the session from context if available.
func Session(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(ctxKeySession{}).(*models.Session)
	return s, ok && s != nil
}

func SessionID(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKeySessionID{}).(string)
	return s, ok && s != ""
}

// UserID returns the backend user id of the session.
func UserID(ctx context.Context) (int64, bool) {
	if s, ok := Session(ctx); ok {
		return s.UserID, true
	}
	return 0, false
}

// ActiveRole returns the session's active role.
func ActiveRole(ctx context.Context) (models.Role, bool) {
	if s, ok := Session(ctx); ok {
		return s.ActiveRole()
	}
	return 0, false
}

// LogFields is filled in once the session is known so handlers wrapping the
// session loader can still log the principal.
type LogFields struct {
	mu     sync.Mutex
	userID int64
	role   models.Role
	set    bool
}

func (f *LogFields) Set(userID int64, role models.Role) {
	f.mu.Lock()
	f.userID, f.role, f.set = userID, role, true
	f.mu.Unlock()
}

// Get returns the principal if one was recorded.
func (f *LogFields) Get() (int64, models.Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userID, f.role, f.set
}

// WithLogFields installs an empty LogFields slot.
func WithLogFields(ctx context.Context) (context.Context, *LogFields) {
	f := &LogFields{}
	return context.WithValue(ctx, ctxKeyLogFields{}, f), f
}

func LogFieldsFrom(ctx context.Context) (*LogFields, bool) {
	f, ok := ctx.Value(ctxKeyLogFields{}).(*LogFields)
	return f, ok && f != nil
}
