package cli

import (
	"context"
	"time"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/registry"
)

// Builtin service names available to every definition.
const (
	ServiceEcho = "echo"
	ServiceOK   = "ok"
)

// RegisterBuiltins adds the services definitions can use without Go code.
// echo returns the permitted params; ok returns a fixed acknowledgement.
func RegisterBuiltins(reg *registry.Registry) {
	reg.Register(ServiceEcho, func(_ context.Context, p domain.Params) (any, error) {
		return map[string]any(p), nil
	})
	reg.Register(ServiceOK, func(context.Context, domain.Params) (any, error) {
		return map[string]any{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)}, nil
	})
}
