package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for the authenticated caller
	ClaimsKey contextKey = "claims"
)

// Claims is the authenticated caller attached to the request context
type Claims struct {
	UserID uuid.UUID
	Role   models.UserRole
}

// IsAdmin checks if the caller has the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// GetRequestIDFromContext retrieves the request ID set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// GetClaimsFromContext retrieves the caller from context
func GetClaimsFromContext(ctx context.Context) *Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds the caller to the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetUserIDFromContext retrieves the caller's user ID, or uuid.Nil when unauthenticated
func GetUserIDFromContext(ctx context.Context) uuid.UUID {
	if claims := GetClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}
