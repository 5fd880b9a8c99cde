package httpx

import (
	"context"
	"net/http"

	"bookworm/internal/entity"
	"bookworm/internal/logging"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	roleKey     contextKey = "role"
	identityKey contextKey = "identity"
)

// Identity is the verified identity-provider account behind a request.
// A request can carry an identity without a local user before first sign-in.
type Identity struct {
	AuthRef string
	Email   string
	Name    string
	Picture string
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the user role from the request context.
func RoleFrom(r *http.Request) entity.Role {
	if v, ok := r.Context().Value(roleKey).(entity.Role); ok {
		return v
	}
	return ""
}

func IdentityFrom(r *http.Request) (Identity, bool) {
	v, ok := r.Context().Value(identityKey).(Identity)
	return v, ok
}

// ContextWithUser returns a new context with the user ID and role.
func ContextWithUser(ctx context.Context, userID string, role entity.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func RequestIDFrom(r *http.Request) string {
	return logging.RequestIDFrom(r.Context())
}
