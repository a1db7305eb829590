package backend

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SoniDharini/Fleet-Flow/internal/httpctx"
)

// NewHTTPClient returns the client used for backend calls. Redirects are not
// followed so a login redirect from the backend surfaces as a status.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(http.DefaultTransport),
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func NewTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &tracingRoundTripper{rt: rt}
}

// tracingRoundTripper forwards the console's request id to the backend and
// logs each call at debug level.
type tracingRoundTripper struct {
	rt http.RoundTripper
}

func (t *tracingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if rid, ok := httpctx.RequestID(ctx); ok && req.Header.Get("X-Request-ID") == "" {
		req = req.Clone(ctx)
		req.Header.Set("X-Request-ID", rid)
	}
	start := time.Now()
	resp, err := t.rt.RoundTrip(req)
	if err != nil {
		slog.DebugContext(ctx, "backend call failed", "method", req.Method, "url", req.URL.Path, "duration", time.Since(start), "err", err)
		return nil, err
	}
	slog.DebugContext(ctx, "backend call", "method", req.Method, "url", req.URL.Path, "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}
