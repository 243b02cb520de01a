// Package middleware provides the HTTP middleware chain: identity
// resolution, request logging, CORS, and metrics.
package middleware

import (
	"context"
	"net/http"

	"github.com/taskhive/taskhive/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the resolved request identity.
const identityKey contextKey = "identity"

// IdentityFrom extracts the resolved identity from the context.
// Returns the anonymous identity if none was attached.
func IdentityFrom(ctx context.Context) auth.Identity {
	if identity, ok := ctx.Value(identityKey).(auth.Identity); ok {
		return identity
	}
	return auth.Anonymous()
}

// WithIdentity returns middleware that resolves the Authorization header into
// an Identity exactly once per request and attaches it to the context. It
// never rejects a request: a missing or bad token yields the anonymous
// identity, and the decision to demand authentication belongs to the service
// layer.
func WithIdentity(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
