package httphandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/camdenr/trackhub/internal/application"
)

// contextKey is an unexported type for request context keys in this package.
type contextKey int

const authContextKey contextKey = iota

// WithAppAuth wraps next so it only runs for requests carrying a valid app
// bearer token. Failures answer with the OAuth-style JSON body
// {"error": code, "error_description": msg}; on success the resolved
// application.AuthContext is attached to the request context.
func WithAppAuth(auth *application.AuthService, opts application.AuthOptions, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)

		ac, authErr := auth.Authenticate(r.Context(), token, opts)
		if authErr != nil {
			writeAuthError(w, authErr)
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey, ac)
		next(w, r.WithContext(ctx))
	}
}

// AuthContextFrom returns the AuthContext attached by WithAppAuth, or nil for
// requests that did not pass through the auth wrapper.
func AuthContextFrom(ctx context.Context) *application.AuthContext {
	ac, _ := ctx.Value(authContextKey).(*application.AuthContext)
	return ac
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive; a missing or malformed
// header yields the empty string, which Authenticate reports as missing_token.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func writeAuthError(w http.ResponseWriter, authErr *application.AuthError) {
	writeJSON(w, authErr.Status, authErrorResponse{
		Error:            authErr.Code,
		ErrorDescription: authErr.Description,
	})
}
