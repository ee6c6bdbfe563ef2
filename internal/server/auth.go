package server

import (
	"context"
	"net/http"

	"predleague/engine/internal/models"
	"predleague/engine/internal/repository"
	"predleague/engine/internal/store"
)

// currentUser is the authenticated identity attached to a request.
type currentUser struct {
	Username    string
	DisplayName string
	IsAdmin     bool
}

type contextKey struct{ name string }

var userContextKey = contextKey{"user"}

// requireUser authenticates the request with HTTP basic auth against the
// users document. The league re-verifies on every request; there is no
// session state to go stale.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, passcode, ok := r.BasicAuth()
		if !ok {
			unauthorized(w)
			return
		}

		user, err := s.repo.Users.Verify(r.Context(), username, passcode)
		if err != nil {
			if store.IsNotFound(err) || repository.IsValidation(err) {
				unauthorized(w)
				return
			}
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, currentUser{
			Username:    username,
			DisplayName: user.DisplayName,
			IsAdmin:     user.IsAdmin || username == models.AdminUsername,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates admin routes. Must run after requireUser.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFrom(r.Context())
		if !ok || !user.IsAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(ctx context.Context) (currentUser, bool) {
	user, ok := ctx.Value(userContextKey).(currentUser)
	return user, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="prediction league"`)
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
}
