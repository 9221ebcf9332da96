// Package middleware provides HTTP middleware for session authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the authenticated session ID.
const sessionIDKey ContextKey = "sessionID"

// TokenQueryParam carries the session token when a client cannot set headers,
// as with the browser WebSocket API.
const TokenQueryParam = "token"

// TokenValidator validates session tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionIDGetter, error)
}

// SessionIDGetter extracts the session ID from token claims.
type SessionIDGetter interface {
	GetSessionID() uuid.UUID
}

// SessionMiddleware creates middleware that validates session tokens and adds
// the session ID to the request context. The token is read from a Bearer
// Authorization header, falling back to the token query parameter.
func SessionMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractToken(r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, claims.GetSessionID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := strings.TrimSpace(r.URL.Query().Get(TokenQueryParam))
		return token, token != ""
	}

	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetSessionID extracts the authenticated session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}

// WithSessionID returns a copy of ctx carrying a session ID. Used by tests and
// by handlers invoked outside the middleware.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}
