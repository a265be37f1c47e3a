package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/love-prep/backend/internal/httputil"
	"github.com/love-prep/backend/internal/models"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RoleLookup returns the current role and status of a user. Roles are read on
// every admin request so a demotion or block takes effect immediately.
type RoleLookup interface {
	UserRole(ctx context.Context, userID int64) (models.Role, models.UserStatus, error)
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user ID from the request context.
func UserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value(userIDKey).(int64)
	return uid, ok
}

func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			userID, err := v.Verify(token)
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func RequireAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r)
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			role, status, err := lookup.UserRole(r.Context(), userID)
			if err != nil || role != models.RoleAdmin || status != models.StatusActive {
				httputil.WriteError(w, http.StatusForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
