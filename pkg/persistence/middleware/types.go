package middleware

import "github.com/aretw0/actionkit/pkg/ports"

// Middleware allows wrapping a FlashStore to add behavior.
type Middleware func(ports.FlashStore) ports.FlashStore

// Chain wraps store so the first middleware sees calls first.
func Chain(store ports.FlashStore, mws ...Middleware) ports.FlashStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
