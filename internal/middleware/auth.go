package middleware

import (
	"context"
	"net/http"
	"strings"

	"app/internal/util"
)

// contextKey is unexported to avoid collisions in the request context.
type contextKey string

// AccountContextKey holds the authenticated account ID.
const AccountContextKey = contextKey("account")

// AccountID returns the authenticated account ID from the request context.
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(AccountContextKey).(string)
	return id
}

// AuthMiddleware validates the Bearer JWT and injects the account ID
// (the token subject) into the request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := util.ValidateJWT(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), AccountContextKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
