package auth

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// IdentityKey is also used as the restful request attribute name.
const IdentityKey contextKey = "user_id"

// WithIdentity binds the authenticated user id to ctx.
func WithIdentity(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom extracts the authenticated user id bound by the gate.
func IdentityFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IdentityKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
