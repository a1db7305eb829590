package middleware

import (
	"net/http"

	httpserver "github.com/SoniDharini/Fleet-Flow/internal/http"
)

// redirect uses 303 for non-GET requests so the browser follows with a GET.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	code := http.StatusFound
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		code = http.StatusSeeOther
	}
	http.Redirect(w, r, to, code)
}

// reject sends browsers to location and API clients a JSON error.
func reject(w http.ResponseWriter, r *http.Request, status int, code, msg, location string) {
	if httpserver.WantsHTML(r) && location != "" {
		redirect(w, r, location)
		return
	}
	httpserver.JSONError(w, status, code, msg)
}
