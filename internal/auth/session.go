// internal/auth/session.go
package auth

import (
	"net/http"
	"net/netip"
	"strings"
	"time"
)

// CookieName holds the opaque console session id.
const CookieName = "fleetflow_session"

// cookieSecure controls whether the session cookie is marked Secure.
// Default true; main() should override based on config for local dev.
var cookieSecure = true

// SetCookieSecurity allows main.go to configure whether cookies are Secure.
func SetCookieSecurity(secure bool) { cookieSecure = secure }

var sameSiteMode = http.SameSiteLaxMode

// SetCookieSameSite allows configuring SameSite mode: "lax", "none", "strict".
func SetCookieSameSite(mode string) {
	switch strings.ToLower(mode) {
	case "none":
		sameSiteMode = http.SameSiteNoneMode
	case "strict":
		sameSiteMode = http.SameSiteStrictMode
	default:
		sameSiteMode = http.SameSiteLaxMode
	}
}

// SetSessionCookie sets the opaque session id cookie.
func SetSessionCookie(w http.ResponseWriter, sid string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: sameSiteMode,
		Expires:  expiry,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: sameSiteMode,
	})
}

// SessionID returns the session id carried by the request, if any.
func SessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// ClientIP extracts a best-effort client IP from headers or RemoteAddr.
func ClientIP(r *http.Request) (netip.Addr, bool) {
	// Try common proxy header first
	if ff := r.Header.Get("X-Forwarded-For"); ff != "" {
		// XFF may be a list: client, proxy1, proxy2
		parts := strings.Split(ff, ",")
		if len(parts) > 0 {
			if ip, err := netip.ParseAddr(strings.TrimSpace(parts[0])); err == nil {
				return ip, true
			}
		}
	}
	// Fallback to X-Real-IP
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		if ip, err := netip.ParseAddr(strings.TrimSpace(rip)); err == nil {
			return ip, true
		}
	}
	// RemoteAddr may include port
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr(), true
	}
	if ip, err := netip.ParseAddr(r.RemoteAddr); err == nil {
		return ip, true
	}
	return netip.Addr{}, false
}
