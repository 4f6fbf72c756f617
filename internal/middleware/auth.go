// Package middleware provides HTTP middleware for actor authentication,
// request logging and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dishu223/fairshare-splitapp/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ActorIDKey is the context key for the authenticated actor ID.
	ActorIDKey contextKey = "actor_id"
	// DisplayNameKey is the context key for the actor's display name.
	DisplayNameKey contextKey = "display_name"
	// GuestKey is the context key for the anonymous-session flag.
	GuestKey contextKey = "guest"
)

// GetActorID extracts the actor ID from the context. Returns empty string if
// the request was not authenticated.
func GetActorID(ctx context.Context) string {
	actorID, _ := ctx.Value(ActorIDKey).(string)
	return actorID
}

// GetDisplayName extracts the actor's display name from the context.
func GetDisplayName(ctx context.Context) string {
	name, _ := ctx.Value(DisplayNameKey).(string)
	return name
}

// IsGuest reports whether the request was made by an anonymous actor.
func IsGuest(ctx context.Context) bool {
	guest, _ := ctx.Value(GuestKey).(bool)
	return guest
}

// RequireAuth validates the Bearer token and adds the actor to the request
// context. Requests without a valid token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ActorIDKey, claims.ActorID)
			ctx = context.WithValue(ctx, DisplayNameKey, claims.DisplayName)
			ctx = context.WithValue(ctx, GuestKey, claims.Guest)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
