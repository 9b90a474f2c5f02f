package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vidyastream/backend/internal/models"
)

type contextKey string

const ctxAdminIDKey contextKey = "admin_id"

// TokenValidator verifies a session token and returns the account id and role.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, string, error)
}

// AdminAuth authenticates requests with a Bearer session token and requires
// the ADMIN role. On success the admin's account id is set into the request
// context.
func AdminAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}

			id, role, err := validator.ValidateToken(raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			if role != models.RoleAdmin {
				http.Error(w, `{"error":"admin role required"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromCtx returns the authenticated admin's account id, or uuid.Nil.
func AdminIDFromCtx(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxAdminIDKey).(uuid.UUID)
	return id
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
