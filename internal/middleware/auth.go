package middleware

import (
	"context"
	"net/http"

	"github.com/mdimitrov/photoblog/internal/models"
	"github.com/mdimitrov/photoblog/internal/session"
)

type contextKey string

const userKey contextKey = "currentUser"

// UserFrom returns the authenticated user attached to the request, or nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

// entryPoints are never recorded as a pending-redirect destination.
var entryPoints = map[string]bool{
	"/login":  true,
	"/signup": true,
	"/logout": true,
}

// LoadUser attaches the current user, if any, so public pages can branch on
// logged-in state in their view models.
func LoadUser(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := sm.Current(r); user != nil {
				r = withUser(r, user)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects unauthenticated visitors to the login form,
// remembering where they were headed.
func RequireAuth(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := sm.Current(r)
			if user == nil {
				if !entryPoints[r.URL.Path] {
					session.RememberPath(w, r.URL.Path)
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, withUser(r, user))
		})
	}
}

// RequireGuest keeps signed-in users off the signup and login pages.
func RequireGuest(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.Current(r) != nil {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RememberDestination records the current path for unauthenticated GETs so a
// later login or signup can return the visitor here. Expects LoadUser to
// have run first.
func RememberDestination(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && UserFrom(r.Context()) == nil && !entryPoints[r.URL.Path] {
			session.RememberPath(w, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
