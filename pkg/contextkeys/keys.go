// Package contextkeys holds the typed context keys shared between middleware
// and handlers, avoiding import cycles between them.
package contextkeys

import "context"

// Key is the private type for context keys defined by this module.
type Key string

// IdentityKey carries the verified caller identity for a request.
const IdentityKey Key = "recouvro.identity"

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, identity interface{}) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityValue returns the raw identity value, or nil when unauthenticated.
func IdentityValue(ctx context.Context) interface{} {
	return ctx.Value(IdentityKey)
}
