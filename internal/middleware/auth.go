package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/filedrop/gateway/internal/auth"
	"github.com/filedrop/gateway/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "identity"

// TokenVerifier turns a raw bearer token into an identity.
type TokenVerifier interface {
	VerifyToken(raw string) (auth.Identity, error)
}

// RequireAuth returns middleware that validates a Bearer token and puts the
// caller's identity into the request context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			id, err := verifier.VerifyToken(token)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
