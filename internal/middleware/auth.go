package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/asospay/rewards_platform/internal/auth"
	"github.com/asospay/rewards_platform/internal/httputil"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext returns the resolved caller identity, or nil when the
// request never went through Authenticated.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityContextKey).(*auth.Identity)
	return id
}

func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func Authenticated(resolver auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			identity, err := resolver.Resolve(r.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				httputil.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// AdminOnly must run after Authenticated. The upstream system validated any
// token for admin endpoints; here the role claim is required.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil {
			httputil.WriteError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}
		if identity.Role != auth.RoleAdmin {
			httputil.WriteError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
