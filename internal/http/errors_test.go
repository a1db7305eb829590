package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SoniDharini/Fleet-Flow/internal/backend"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation verbatim", &backend.Error{Kind: backend.KindValidation, Message: "License plate must be unique"}, 422, "License plate must be unique"},
		{"wrapped authorization", fmt.Errorf("create: %w", &backend.Error{Kind: backend.KindAuthorization, Message: "Forbidden"}), 403, "Forbidden"},
		{"expired", &backend.Error{Kind: backend.KindSessionExpired, Message: "Unauthorized"}, 401, "Unauthorized"},
		{"transient hides detail", &backend.Error{Kind: backend.KindTransient, Message: "dial tcp: refused"}, 502, "The request could not be completed. Please try again."},
		{"timeout", &backend.Error{Kind: backend.KindTransient, Err: context.DeadlineExceeded}, 504, "The server took too long to respond. Please try again."},
		{"unknown", errors.New("boom"), 500, "Something went wrong"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := ErrorMessage(tc.err, "Something went wrong")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestWantsHTML(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, WantsHTML(r))
	r.Header.Set("Accept", "application/json")
	assert.False(t, WantsHTML(r))
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	assert.True(t, WantsHTML(r))
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusForbidden, "no_active_role", "Choose a role first")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"no_active_role","message":"Choose a role first"}`, w.Body.String())
}
