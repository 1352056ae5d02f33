package actionkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/actionkit/internal/runtime"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/dsl"
	"github.com/aretw0/actionkit/pkg/ports"
	"github.com/aretw0/actionkit/pkg/registry"
)

// Controller is the high-level entry point of the library.
// It owns a set of frozen action configurations and dispatches requests to them.
type Controller struct {
	name string

	mu      sync.RWMutex
	order   []string
	actions map[string]*domain.ActionConfig

	registry      *registry.Registry
	flash         ports.FlashStore
	authenticator ports.Authenticator
	authorizer    ports.Authorizer
	hooks         domain.LifecycleHooks
	logger        *slog.Logger

	dispatcher *runtime.Dispatcher
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithRegistry shares a service registry between controllers.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Controller) {
		c.registry = r
	}
}

// WithFlashStore sets the store backing Context.Flash.
func WithFlashStore(s ports.FlashStore) Option {
	return func(c *Controller) {
		c.flash = s
	}
}

// WithAuthenticator sets the authenticator guarding actions.
func WithAuthenticator(a ports.Authenticator) Option {
	return func(c *Controller) {
		c.authenticator = a
	}
}

// WithAuthorizer sets the authorizer guarding actions.
func WithAuthorizer(a ports.Authorizer) Option {
	return func(c *Controller) {
		c.authorizer = a
	}
}

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New initializes a controller.
func New(name string, opts ...Option) *Controller {
	c := &Controller{
		name:    name,
		actions: make(map[string]*domain.ActionConfig),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = registry.NewRegistry()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if name != "" {
		c.logger = c.logger.With("controller", name)
	}

	c.dispatcher = runtime.NewDispatcher(
		runtime.WithRegistry(c.registry),
		runtime.WithAuthenticator(c.authenticator),
		runtime.WithAuthorizer(c.authorizer),
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithLogger(c.logger),
	)
	return c
}

// Name returns the controller name.
func (c *Controller) Name() string {
	return c.name
}

// Registry returns the registry used to resolve services referenced by name.
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// Action declares (or redeclares) an action. configure runs once against a
// fresh builder and the result is frozen.
func (c *Controller) Action(name string, configure func(a *dsl.ActionBuilder)) *Controller {
	ab := dsl.NewAction(name)
	if configure != nil {
		configure(ab)
	}
	return c.Declare(ab.Build())
}

// Declare stores already built configurations, replacing actions with the same name.
func (c *Controller) Declare(cfgs ...domain.ActionConfig) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range cfgs {
		cfg := cfgs[i].Clone()
		if _, exists := c.actions[cfg.Name]; !exists {
			c.order = append(c.order, cfg.Name)
		}
		c.actions[cfg.Name] = &cfg
		c.logger.Debug("action declared", "action", cfg.Name, "view", cfg.View(), "service", serviceName(&cfg))
	}
	return c
}

// Lookup returns the frozen configuration of an action.
func (c *Controller) Lookup(name string) (*domain.ActionConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.actions[name]
	return cfg, ok
}

// Actions returns the declared actions in declaration order.
func (c *Controller) Actions() []*domain.ActionConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.ActionConfig, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.actions[name])
	}
	return out
}

// Dispatch runs the named action for req.
func (c *Controller) Dispatch(ctx context.Context, name string, req *domain.Request) error {
	cfg, ok := c.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s#%s", domain.ErrActionNotFound, c.name, name)
	}
	return c.dispatcher.Dispatch(ctx, cfg, req)
}

// BindFlash wires the request flash helpers to the controller's store under key.
// It is a no-op without a store or key.
func (c *Controller) BindFlash(req *domain.Request, key string) {
	if c.flash == nil || key == "" {
		return
	}
	store := c.flash
	req.Flash = func(ctx context.Context, f domain.Flash) error {
		return store.Push(ctx, key, f)
	}
	req.Drain = func(ctx context.Context) ([]domain.Flash, error) {
		return store.Drain(ctx, key)
	}
}

func serviceName(cfg *domain.ActionConfig) string {
	if cfg.Service == nil {
		return ""
	}
	return cfg.Service.Name()
}
