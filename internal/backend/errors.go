package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind classifies a failed backend call.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindAuthentication is a credential rejection at login or register.
	KindAuthentication
	// KindValidation is a mutation the backend refused, e.g. overweight cargo.
	KindValidation
	// KindAuthorization is a role without permission for the call.
	KindAuthorization
	KindNotFound
	// KindSessionExpired is a 401 on a resource call; the console session
	// is no longer backed by a backend login.
	KindSessionExpired
	// KindTransient covers transport failures, timeouts and 5xx.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindSessionExpired:
		return "session_expired"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Error is returned by every Client call that fails.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("backend ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a backend error, or KindUnknown.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// Message returns the backend's message for err, if it carried one.
func Message(err error) (string, bool) {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message, true
	}
	return "", false
}

// errorBody accepts both {code, message, details} and {error}.
type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func decodeError(op string, authOp bool, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		e.Message = strings.TrimSpace(eb.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(eb.Error)
		}
		if len(eb.Details) > 0 {
			var s string
			if json.Unmarshal(eb.Details, &s) == nil {
				e.Details = s
			} else {
				e.Details = string(eb.Details)
			}
		}
	}
	switch {
	case status == http.StatusUnauthorized && authOp:
		e.Kind = KindAuthentication
	case status == http.StatusUnauthorized:
		e.Kind = KindSessionExpired
	case status == http.StatusForbidden:
		e.Kind = KindAuthorization
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	case status >= 500:
		e.Kind = KindTransient
	default:
		e.Kind = KindUnknown
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
