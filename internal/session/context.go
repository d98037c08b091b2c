package session

import "context"

type storeContextKey struct{}

// ContextWithStore stores the session store in context.
func ContextWithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// FromContext extracts the session store from context.
func FromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(storeContextKey{}).(*Store)
	return store
}

// CurrentPrincipal returns the active principal in ctx, or nil.
func CurrentPrincipal(ctx context.Context) Principal {
	return FromContext(ctx).Current()
}
