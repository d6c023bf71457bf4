package middleware

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleSource looks up a user's current role. An empty role means the user
// does not exist. *store.DB satisfies this.
type RoleSource interface {
	UserRole(ctx context.Context, id primitive.ObjectID) (string, error)
}

// RequireRole rejects requests whose caller does not hold role. The role
// is re-read from the credential store on every request, never taken from
// the token payload, so a stale token cannot outlive a demotion.
func RequireRole(src RoleSource, role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}
			current, err := src.UserRole(r.Context(), userID)
			if err != nil {
				http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
				return
			}
			if current == "" {
				http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
				return
			}
			if current != role {
				http.Error(w, `{"error":"forbidden: `+role+`s only"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
