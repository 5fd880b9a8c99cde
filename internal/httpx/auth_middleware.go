package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bookworm/internal/apperr"
	"bookworm/internal/entity"
	"bookworm/internal/platform/crypto"
)

// UserResolver maps an external auth reference to the local user.
type UserResolver interface {
	Resolve(ctx context.Context, authRef string) (entity.User, error)
}

// Authenticate verifies a bearer token when one is present. Requests without
// an Authorization header pass through anonymously; an invalid token is
// rejected. A verified identity with no local user yet only carries the
// identity, which is what sign-in needs.
func Authenticate(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header", nil)
				return
			}

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			ctx := ContextWithIdentity(r.Context(), Identity{
				AuthRef: claims.Subject,
				Email:   claims.Email,
				Name:    claims.Name,
				Picture: claims.Picture,
			})

			u, err := users.Resolve(ctx, claims.Subject)
			switch {
			case err == nil:
				ctx = ContextWithUser(ctx, u.ID, u.Role)
			case errors.Is(err, apperr.ErrNotFound):
			default:
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests without a verified token.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r); !ok {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests that are not backed by a signed-in user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFrom(r) == "" {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFrom(r) != entity.RoleAdmin {
			JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
