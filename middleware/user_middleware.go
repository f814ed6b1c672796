package middleware

import (
	"context"
	"net/http"

	"github.com/andrewpaige1/autoquiz-api/auth"
	"github.com/andrewpaige1/autoquiz-api/models"
	"github.com/andrewpaige1/autoquiz-api/storage"
)

type contextKey string

const userKey contextKey = "user"

// RequireUser verifies the session cookie, loads the matching user from the
// store and attaches it to the request context. Requests without a valid
// session, or whose user no longer exists, get a 401.
func RequireUser(store storage.Engine, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		username, err := auth.VerifyToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := store.GetUserByUsername(r.Context(), username)
		if err != nil {
			http.Error(w, "Failed to load user", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFrom returns the authenticated user attached by RequireUser.
func UserFrom(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userKey).(*models.User)
	return user, ok
}
