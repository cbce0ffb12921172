// Package cookie centralizes cookie handling for the storefront: the
// session token and the client-side cart mirror both go through here so
// security attributes stay consistent.
package cookie

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/atlasware/souq/internal/domain"
)

const (
	// SessionCookieName holds the opaque session token.
	SessionCookieName = "souq_session"

	// CartCookieName holds the client cart mirror: a base64 JSON list of
	// desired lines. Read as untrusted input; written only to clear it
	// after a successful order.
	CartCookieName = "souq_cart"

	// SessionMaxAge is 30 days, matching the server-side session lifetime.
	SessionMaxAge = 30 * 24 * 60 * 60
)

// Config holds cookie security settings.
type Config struct {
	// Secure requires HTTPS for cookie transmission. True in production.
	Secure bool
}

// NewConfig creates a cookie configuration.
func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession sets the session cookie.
func (c *Config) SetSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the session cookie.
func (c *Config) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
	})
}

// GetSessionToken reads the session token from the request.
// Returns empty string if the cookie is not present.
func GetSessionToken(r *http.Request) string {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}

// ReadCartLines decodes the client cart mirror. Malformed cookies yield an
// empty list rather than an error: the client copy is advisory only.
func ReadCartLines(r *http.Request) []domain.CartLine {
	ck, err := r.Cookie(CartCookieName)
	if err != nil || ck.Value == "" {
		return nil
	}

	raw, err := base64.URLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil
	}
	return lines
}

// ClearCart overwrites the client cart mirror with "now empty". Called after
// a successful order commit so the UI reflects an empty cart immediately.
func (c *Config) ClearCart(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
