package auth

import (
	"context"

	"tranghoa.org/internal/orders"
)

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved session identity to the context.
func ContextWithIdentity(ctx context.Context, identity orders.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the session identity from the context.
func IdentityFromContext(ctx context.Context) (orders.Identity, bool) {
	if ctx == nil {
		return orders.Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(orders.Identity)
	if !ok || v.AccountID == "" {
		return orders.Identity{}, false
	}
	return v, true
}
