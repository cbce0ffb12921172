package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atlasware/souq/internal/cookie"
	"github.com/atlasware/souq/internal/domain"
)

type contextKey string

// UserContextKey is the context key for storing the authenticated user
const UserContextKey contextKey = "user"

// WithUser extracts the user from the session cookie and adds it to the request context.
// This middleware is optional - it adds the user if present but doesn't require authentication.
func WithUser(users domain.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.GetSessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserBySessionToken(r.Context(), token)
			if err != nil {
				// Expired or unknown session, continue as guest
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated, redirecting to login if not
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			returnTo := r.URL.Path
			if r.URL.RawQuery != "" {
				returnTo += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?return_to="+url.QueryEscape(returnTo), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the user is an admin, returning 403 if not
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if user.Role != domain.RoleAdmin {
			respondForbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves the user from the request context.
// Returns nil if no user is authenticated.
func GetUserFromContext(ctx context.Context) *domain.User {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
