package ports

import (
	"context"

	"github.com/aretw0/actionkit/pkg/domain"
)

// FlashStore persists one-time messages keyed by a client session.
type FlashStore interface {
	// Push queues a message for the session.
	Push(ctx context.Context, key string, f domain.Flash) error

	// Drain returns the queued messages in push order and clears them.
	// An unknown key yields an empty slice and no error.
	Drain(ctx context.Context, key string) ([]domain.Flash, error)
}

// Authenticator runs before actions that do not skip authentication.
// It may return a derived context carrying the identity.
// Failures should wrap domain.ErrUnauthenticated.
type Authenticator interface {
	Authenticate(ctx context.Context, req *domain.Request) (context.Context, error)
}

// Authorizer runs before actions that do not skip authorization.
// Failures should wrap domain.ErrForbidden.
type Authorizer interface {
	Authorize(ctx context.Context, action string, req *domain.Request) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, req *domain.Request) (context.Context, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, req *domain.Request) (context.Context, error) {
	return f(ctx, req)
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, action string, req *domain.Request) error

func (f AuthorizerFunc) Authorize(ctx context.Context, action string, req *domain.Request) error {
	return f(ctx, action, req)
}
