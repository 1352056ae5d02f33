package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/ports"
	"github.com/aretw0/actionkit/pkg/registry"
	"github.com/oklog/ulid/v2"
)

// Dispatcher runs a frozen action configuration against one request.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	registry      *registry.Registry
	authenticator ports.Authenticator
	authorizer    ports.Authorizer
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithRegistry sets the registry used to resolve services referenced by name.
func WithRegistry(r *registry.Registry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithAuthenticator sets the authenticator run before non-skipping actions.
func WithAuthenticator(a ports.Authenticator) Option {
	return func(d *Dispatcher) {
		d.authenticator = a
	}
}

// WithAuthorizer sets the authorizer run before non-skipping actions.
func WithAuthorizer(a ports.Authorizer) Option {
	return func(d *Dispatcher) {
		d.authorizer = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher with dependencies.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry.NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the service registry.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Dispatch runs action for req: guards, before callbacks, service, response
// callback, after callbacks.
//
// Service failures and request decoding errors are routed to the action's
// error tables and return nil once rendered. Anything that cannot be resolved (unconfigured action,
// missing format or category handler) returns a *domain.DispatchError.
func (d *Dispatcher) Dispatch(ctx context.Context, action *domain.ActionConfig, req *domain.Request) (err error) {
	if req.ID == "" {
		req.ID = ulid.Make().String()
	}
	c := domain.NewContext(ctx, action, req)

	start := time.Now()
	d.emitDispatch(c, d.hooks.OnDispatchStart, domain.EventDispatchStart, "", 0, nil)

	outcome := domain.OutcomeSuccess
	defer func() {
		if err != nil {
			outcome = domain.OutcomeFailed
			d.logger.Error("dispatch failed", "action", action.Name, "format", c.Format, "request_id", req.ID, "error", err)
		} else if c.Failure != nil {
			outcome = domain.OutcomeHandled
		}
		d.emitDispatch(c, d.hooks.OnDispatchEnd, domain.EventDispatchEnd, outcome, time.Since(start), err)
	}()

	if !action.Configured() {
		return d.dispatchError(c, domain.ErrUnconfiguredAction, nil)
	}

	if gerr := d.guard(c); gerr != nil {
		return d.handleError(c, gerr)
	}
	if req.Err != nil {
		return d.handleError(c, ensureCategory(req.Err, domain.CategoryInvalid))
	}

	c.Params = permitted(action, req)

	for _, cb := range action.Before {
		if berr := cb(c); berr != nil {
			return d.handleError(c, berr)
		}
	}

	if action.Service != nil {
		result, serr := d.invoke(c)
		if serr != nil {
			if errors.Is(serr, domain.ErrUnconfiguredAction) {
				return serr
			}
			return d.handleError(c, serr)
		}
		c.Result = result
	}

	if rerr := d.renderSuccess(c); rerr != nil {
		return rerr
	}
	return d.runAfter(c)
}

// guard runs authentication and authorization unless the action skips them.
func (d *Dispatcher) guard(c *domain.Context) error {
	action := c.Action
	if !action.SkipAuthentication && d.authenticator != nil {
		ctx, err := d.authenticator.Authenticate(c.Context, c.Request)
		if err != nil {
			return ensureCategory(err, domain.CategoryUnauthenticated)
		}
		if ctx != nil {
			c.Context = ctx
		}
	}
	if !action.SkipAuthorization && d.authorizer != nil {
		if err := d.authorizer.Authorize(c, action.Name, c.Request); err != nil {
			return ensureCategory(err, domain.CategoryForbidden)
		}
	}
	return nil
}

// invoke resolves the service reference and calls it.
func (d *Dispatcher) invoke(c *domain.Context) (any, error) {
	ref := c.Action.Service
	fn, err := d.resolve(ref)
	if err != nil {
		return nil, d.dispatchError(c, domain.ErrUnconfiguredAction, err)
	}

	name := ref.Name()
	d.emitService(c, d.hooks.OnServiceCall, domain.EventServiceCall, name, false, 0)
	d.logger.Debug("service call", "action", c.Action.Name, "service", name, "request_id", c.RequestID)

	start := time.Now()
	result, err := fn(c, c.Params)

	d.emitService(c, d.hooks.OnServiceReturn, domain.EventServiceReturn, name, err != nil, time.Since(start))
	return result, err
}

func (d *Dispatcher) resolve(ref *domain.ServiceRef) (domain.ServiceFunc, error) {
	switch t := ref.Target.(type) {
	case domain.ServiceFunc:
		return t, nil
	case func(context.Context, domain.Params) (any, error):
		return t, nil
	case string:
		return d.registry.Resolve(t, ref.Method)
	case domain.MethodSet:
		if fn, ok := t.Methods()[ref.Method]; ok {
			return fn, nil
		}
		if s, ok := t.(domain.Service); ok && ref.Method == domain.DefaultServiceMethod {
			return s.Call, nil
		}
	case domain.Service:
		if ref.Method == domain.DefaultServiceMethod {
			return t.Call, nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

// handleError renders the error table matching err.
func (d *Dispatcher) handleError(c *domain.Context, cause error) error {
	category := domain.Categorize(cause)
	c.Failure = cause
	c.Category = category

	table, matched, ok := c.Action.ErrorTable(category)
	if !ok {
		return d.dispatchError(c, domain.ErrNoErrorHandler, cause)
	}
	cb, _, ok := table.Resolve(c.Format)
	if !ok {
		c.Category = matched
		return d.dispatchError(c, domain.ErrNoFormatHandler, cause)
	}

	d.logger.Debug("rendering error table", "action", c.Action.Name, "category", category, "matched", matched, "format", c.Format)
	c.SetStatus(domain.StatusFor(category))
	if err := cb(c); err != nil {
		return d.dispatchError(c, err, cause)
	}
	return d.runAfter(c)
}

func (d *Dispatcher) runAfter(c *domain.Context) error {
	for _, cb := range c.Action.After {
		if err := cb(c); err != nil {
			return d.dispatchError(c, err, nil)
		}
	}
	return nil
}

func (d *Dispatcher) dispatchError(c *domain.Context, err, cause error) error {
	return &domain.DispatchError{
		Action:   c.Action.Name,
		Format:   c.Format,
		Category: c.Category,
		Err:      err,
		Cause:    cause,
	}
}

// permitted scopes and filters the request params, then restores route params.
func permitted(action *domain.ActionConfig, req *domain.Request) domain.Params {
	params := req.Params.Scope(action.ParamsKey).Permit(action.Permit)
	if len(req.Path) == 0 {
		return params
	}
	out := make(domain.Params, len(params)+len(req.Path))
	for k, v := range params {
		out[k] = v
	}
	for k, v := range req.Path {
		out[k] = v
	}
	return out
}

func ensureCategory(err error, fallback domain.ErrorCategory) error {
	if domain.Categorize(err) == domain.CategoryInternal {
		return domain.WithCategory(fallback, err)
	}
	return err
}

func (d *Dispatcher) emitDispatch(c *domain.Context, hook func(context.Context, *domain.DispatchEvent), typ domain.EventType, outcome string, dur time.Duration, err error) {
	if hook == nil {
		return
	}
	hook(c, &domain.DispatchEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, RequestID: c.RequestID},
		Action:    c.Action.Name,
		Format:    c.Format,
		Outcome:   outcome,
		Category:  c.Category,
		Duration:  dur,
		Err:       err,
	})
}

func (d *Dispatcher) emitService(c *domain.Context, hook func(context.Context, *domain.ServiceEvent), typ domain.EventType, service string, isErr bool, dur time.Duration) {
	if hook == nil {
		return
	}
	hook(c, &domain.ServiceEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, RequestID: c.RequestID},
		Action:    c.Action.Name,
		Service:   service,
		IsError:   isErr,
		Duration:  dur,
	})
}
