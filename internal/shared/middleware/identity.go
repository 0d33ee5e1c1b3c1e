package middleware

import (
	"context"
	"net/http"
)

type contextKey string

// UserIDKey is the context key under which the authenticated user id is stored.
const UserIDKey contextKey = "userID"

// Identity resolves the caller's user id from the X-User-ID header set by the
// fronting auth proxy and stores it in the request context. Requests without
// an id are rejected before reaching the handler.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the authenticated user id placed by Identity.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
