package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/atlasware/souq/internal/cookie"
)

const (
	// CSRFTokenLength is the length of the CSRF token in bytes
	CSRFTokenLength = 32

	// CSRFCookieName is the name of the CSRF cookie
	CSRFCookieName = "souq_csrf"

	// CSRFHeaderName is the header name for CSRF token
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormFieldName is the form field name for CSRF token
	CSRFFormFieldName = "csrf_token"

	// CSRFContextKey is the context key for the CSRF token
	CSRFContextKey contextKey = "csrf_token"
)

// CSRFConfig configures CSRF protection
type CSRFConfig struct {
	// CookieConfig supplies the Secure attribute for the token cookie
	CookieConfig *cookie.Config

	// CookieMaxAge is the max age of the CSRF cookie in seconds
	// Default: 86400 (24 hours)
	CookieMaxAge int

	// SkipPaths are paths that should skip CSRF validation
	SkipPaths []string

	// ErrorHandler is called when CSRF validation fails
	// Default: returns 403 Forbidden
	ErrorHandler func(w http.ResponseWriter, r *http.Request)
}

// DefaultCSRFConfig returns sensible defaults.
func DefaultCSRFConfig(cookieConfig *cookie.Config) CSRFConfig {
	return CSRFConfig{
		CookieConfig: cookieConfig,
		CookieMaxAge: 86400,
	}
}

// CSRF provides double-submit CSRF protection for form posts.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieConfig == nil {
		panic("csrf: CookieConfig is required")
	}
	if cfg.CookieMaxAge == 0 {
		cfg.CookieMaxAge = 86400
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Path boundary matching so /metrics does not also skip /metricsx
			for _, skipPath := range cfg.SkipPaths {
				if matchesPathPrefix(r.URL.Path, skipPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := getCSRFTokenFromCookie(r)
			if token == "" {
				var err error
				token, err = generateCSRFToken()
				if err != nil {
					// Fail closed rather than issue a predictable token
					slog.Error("csrf: failed to generate secure token", "error", err)
					respondInternalError(w, r, err)
					return
				}
				setCSRFCookie(w, token, cfg)
			}

			ctx := context.WithValue(r.Context(), CSRFContextKey, token)
			r = r.WithContext(ctx)

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			submittedToken := getSubmittedCSRFToken(r)
			if !validateCSRFToken(token, submittedToken) {
				if cfg.ErrorHandler != nil {
					cfg.ErrorHandler(w, r)
				} else {
					respondForbidden(w, r)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken retrieves the CSRF token from the request context.
// Use this in templates: <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
func GetCSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(CSRFContextKey).(string); ok {
		return token
	}
	return ""
}

func generateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func getCSRFTokenFromCookie(r *http.Request) string {
	ck, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}

// setCSRFCookie writes the token cookie. It is intentionally not HttpOnly:
// client-side code may read it to set the X-CSRF-Token header.
func setCSRFCookie(w http.ResponseWriter, token string, cfg CSRFConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.CookieMaxAge,
		Secure:   cfg.CookieConfig.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

// getSubmittedCSRFToken retrieves the submitted CSRF token from header or form
func getSubmittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			if token := r.FormValue(CSRFFormFieldName); token != "" {
				return token
			}
		}
		return ""
	}

	if err := r.ParseForm(); err == nil {
		if token := r.FormValue(CSRFFormFieldName); token != "" {
			return token
		}
	}

	return ""
}

func validateCSRFToken(cookieToken, submittedToken string) bool {
	if cookieToken == "" || submittedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submittedToken)) == 1
}

// isSafeMethod returns true for HTTP methods that don't change state
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions ||
		method == http.MethodTrace
}

// matchesPathPrefix checks if requestPath matches skipPath at a path
// boundary, so /webhooks does not also match /webhooks-evil.
func matchesPathPrefix(requestPath, skipPath string) bool {
	if !strings.HasPrefix(requestPath, skipPath) {
		return false
	}

	if strings.HasSuffix(skipPath, "/") {
		return true
	}

	if len(requestPath) == len(skipPath) {
		return true
	}

	return requestPath[len(skipPath)] == '/'
}
