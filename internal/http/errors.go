package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/SoniDharini/Fleet-Flow/internal/backend"
)

// ErrorMessage maps a backend failure to an HTTP status and a message fit for
// the user. Validation and authorization messages come through verbatim;
// anything unexpected is hidden behind fallback.
func ErrorMessage(err error, fallback string) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "The server took too long to respond. Please try again."
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		// Unknown error type; hide details
		return http.StatusInternalServerError, fallback
	}

	msg := be.Message
	if msg == "" {
		msg = fallback
	}
	switch be.Kind {
	case backend.KindValidation:
		return http.StatusUnprocessableEntity, msg
	case backend.KindAuthorization:
		return http.StatusForbidden, msg
	case backend.KindAuthentication, backend.KindSessionExpired:
		return http.StatusUnauthorized, msg
	case backend.KindNotFound:
		return http.StatusNotFound, msg
	case backend.KindTransient:
		return http.StatusBadGateway, "The request could not be completed. Please try again."
	default:
		return http.StatusBadGateway, fallback
	}
}
