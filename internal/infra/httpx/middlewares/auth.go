// Package middlewares holds the chi middleware for the HTTP surface:
// request metadata propagation and token-based authentication.
package middlewares

import (
	"context"
	"net/http"

	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	// HeaderJWTToken carries the caller's opaque token.
	HeaderJWTToken = "jwt-token"

	// contextKeyActor is where Authenticate stores the resolved actor.
	contextKeyActor contextKey = "actor"
)

// ErrorWriter is provided by the httpx package at router construction
// time so error payloads stay uniform without an import cycle.
type ErrorWriter func(w http.ResponseWriter, status int, code, msg string)

// Authenticate resolves the jwt-token header through the verifier and
// stores the actor in the request context. Missing or invalid tokens stop
// the request with 401.
func Authenticate(verifier ports.TokenVerifier, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderJWTToken)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing jwt-token header")
				return
			}

			actor, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyActor, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole stops the request with 403 unless the authenticated actor
// holds the given role. Must run after Authenticate.
func RequireRole(role string, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "no authenticated actor")
				return
			}
			if actor.Role != role {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ActorFromContext retrieves the actor stored by Authenticate.
// Use the comma-ok idiom to safely extract typed context values.
func ActorFromContext(ctx context.Context) (ports.Actor, bool) {
	actor, ok := ctx.Value(contextKeyActor).(ports.Actor)
	return actor, ok
}
