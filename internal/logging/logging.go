package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
)

const timeLayout = "2006/01/02 15:04:05"

// customTextHandler writes lines like:
// 2025/09/06 21:11:44 level=INFO msg="starting" key=value ...
type customTextHandler struct {
	out        io.Writer
	mu         *sync.Mutex
	minLevel   slog.Leveler
	attrs      []slog.Attr
	groups     []string
	timeLayout string
}

func (h *customTextHandler) Enabled(_ context.Context, l slog.Level) bool {
	min := slog.LevelInfo
	if h.minLevel != nil {
		min = h.minLevel.Level()
	}
	return l >= min
}

func upperLevel(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "DEBUG"
	case l <= slog.LevelInfo:
		return "INFO"
	case l <= slog.LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '"' || r == '=' || r == '\\' {
			return true
		}
		if !utf8.ValidRune(r) {
			return true
		}
	}
	return false
}

func quote(s string) string {
	b := &strings.Builder{}
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

func appendKeyVal(sb *strings.Builder, key string, val any) {
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case time.Duration:
		sb.WriteString(v.String())
		return
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	default:
		// Let fmt handle numbers, bools, etc.
		s = fmt.Sprint(v)
	}
	if needsQuoting(s) {
		sb.WriteString(quote(s))
	} else {
		sb.WriteString(s)
	}
}

// contextAttrs pulls the request-scoped fields every line should carry.
func contextAttrs(ctx context.Context, into map[string]any) {
	if ctx == nil {
		return
	}
	if rid, ok := httpctx.RequestID(ctx); ok {
		into["request_id"] = rid
	}
	if sess, ok := httpctx.Session(ctx); ok {
		into["user_id"] = sess.UserID
		if r, ok := sess.ActiveRole(); ok {
			into["active_role"] = r.String()
		}
		return
	}
	if f, ok := httpctx.LogFieldsFrom(ctx); ok {
		if uid, r, ok := f.Get(); ok {
			into["user_id"] = uid
			if r.Valid() {
				into["active_role"] = r.String()
			}
		}
	}
}

func (h *customTextHandler) Handle(ctx context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var sb strings.Builder
	sb.Grow(256)
	// Timestamp prefix
	sb.WriteString(ts.Format(h.timeLayout))
	sb.WriteString(" level=")
	sb.WriteString(upperLevel(r.Level))
	if r.Message != "" {
		sb.WriteString(" msg=")
		sb.WriteString(quote(r.Message))
	}

	// Collect attrs (base + record) for ordered rendering.
	prefix := h.groupPrefix()
	attrs := make([]slog.Attr, 0, len(h.attrs)+8)
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		a.Key = prefix + a.Key
		attrs = append(attrs, a)
		return true
	})

	type pair struct {
		k string
		v any
	}
	normal := map[string]any{}
	groupsFlat := make([]pair, 0)

	contextAttrs(ctx, normal)
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		v := a.Value.Resolve()
		key := a.Key
		switch v.Kind() {
		case slog.KindTime:
			normal[key] = v.Time().Format(time.RFC3339)
		case slog.KindGroup:
			for _, ga := range v.Group() {
				if ga.Key == "" {
					continue
				}
				groupsFlat = append(groupsFlat, pair{k: key + "." + ga.Key, v: ga.Value.Any()})
			}
		default:
			normal[key] = v.Any()
		}
	}

	// Priority keys printed first in this exact order if present.
	prio := []string{"method", "url", "status", "duration"}
	for _, k := range prio {
		if v, ok := normal[k]; ok {
			appendKeyVal(&sb, k, v)
			delete(normal, k)
		}
	}

	// Remaining normal keys sorted.
	keys := make([]string, 0, len(normal))
	for k := range normal {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		appendKeyVal(&sb, k, normal[k])
	}

	sort.SliceStable(groupsFlat, func(i, j int) bool { return groupsFlat[i].k < groupsFlat[j].k })
	for _, p := range groupsFlat {
		appendKeyVal(&sb, p.k, p.v)
	}

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *customTextHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// WithAttrs stores attrs already qualified by the current group path.
func (h *customTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := h.groupPrefix()
	out := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	out = append(out, h.attrs...)
	for _, a := range attrs {
		a.Key = prefix + a.Key
		out = append(out, a)
	}
	return &customTextHandler{out: h.out, mu: h.mu, minLevel: h.minLevel, attrs: out, groups: h.groups, timeLayout: h.timeLayout}
}

func (h *customTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	gs := make([]string, 0, len(h.groups)+1)
	gs = append(gs, h.groups...)
	gs = append(gs, name)
	return &customTextHandler{out: h.out, mu: h.mu, minLevel: h.minLevel, attrs: h.attrs, groups: gs, timeLayout: h.timeLayout}
}

// contextJSONHandler adds the request-scoped fields to JSON records.
type contextJSONHandler struct {
	slog.Handler
}

func (h contextJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	extra := map[string]any{}
	contextAttrs(ctx, extra)
	for k, v := range extra {
		r.AddAttrs(slog.Any(k, v))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextJSONHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextJSONHandler) WithGroup(name string) slog.Handler {
	return contextJSONHandler{h.Handler.WithGroup(name)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w.
// level: "debug", "info", "warn", "error" (case-insensitive)
// json: if true, use JSON handler; otherwise, use text handler.
func New(w io.Writer, level string, json bool) *slog.Logger {
	lvl := parseLevel(level)
	if json {
		// JSON handler with formatted time value.
		replace := func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(timeLayout))
			}
			return a
		}
		opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: replace}
		return slog.New(contextJSONHandler{slog.NewJSONHandler(w, opts)})
	}
	return slog.New(&customTextHandler{
		out:        w,
		mu:         &sync.Mutex{},
		minLevel:   lvl,
		timeLayout: timeLayout,
	})
}

// Setup configures slog's default logger based on provided level and format.
// For text logs, time is prefixed as "YYYY/MM/DD HH:MM:SS" without a key.
func Setup(level string, json bool) *slog.Logger {
	logger := New(os.Stdout, level, json)
	slog.SetDefault(logger)
	return logger
}
