package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		// Default to 200 if Write is called first
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// SlogRequestLogger logs each HTTP request with structured fields using slog.
// request_id, user_id and active_role are added by the log handler from the
// request context.
func SlogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		dur := time.Since(start)

		attrs := []any{
			"method", r.Method,
			"url", r.URL.String(),
			"status", rw.status,
			"duration", dur,
			"bytes", rw.bytes,
		}
		if err := r.Context().Err(); err != nil {
			// client went away mid-request
			attrs = append(attrs, "canceled", true)
		}
		level := slog.LevelInfo
		if rw.status >= 500 {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request", attrs...)
	})
}
