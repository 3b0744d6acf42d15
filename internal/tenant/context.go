package tenant

import "context"

type contextKey struct{}

// ContextWithKey stores the tenant key in context.
func ContextWithKey(ctx context.Context, key Key) context.Context {
	return context.WithValue(ctx, contextKey{}, key)
}

// FromContext extracts the tenant key from context. The boolean is false when
// the request never passed through the tenant middleware.
func FromContext(ctx context.Context) (Key, bool) {
	key, ok := ctx.Value(contextKey{}).(Key)
	return key, ok
}
