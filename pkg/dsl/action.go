package dsl

import "github.com/aretw0/actionkit/pkg/domain"

// ActionBuilder provides a fluent API for configuring an action.
// Nothing is validated here; an incomplete action fails when it is dispatched.
type ActionBuilder struct {
	action domain.ActionConfig
}

// NewAction creates a standalone builder for the named action.
func NewAction(name string) *ActionBuilder {
	return &ActionBuilder{action: domain.ActionConfig{Name: name}}
}

// Service sets the invocation target. ref is a domain.ServiceFunc, a
// domain.Service or a registry name; method defaults to "call".
func (a *ActionBuilder) Service(ref any, method ...string) *ActionBuilder {
	m := domain.DefaultServiceMethod
	if len(method) > 0 && method[0] != "" {
		m = method[0]
	}
	a.action.Service = &domain.ServiceRef{Target: ref, Method: m}
	return a
}

// Page sets the page rendered for html requests.
func (a *ActionBuilder) Page(p domain.Page) *ActionBuilder {
	a.action.Page = p
	return a
}

// Component sets the component rendered for html requests, with default locals.
func (a *ActionBuilder) Component(c domain.Component, locals map[string]any) *ActionBuilder {
	a.action.Component = &domain.ComponentRef{Component: c, Locals: locals}
	return a
}

// PageConfig sets the transform applied to the page configuration.
// When present, the page takes precedence over the component.
func (a *ActionBuilder) PageConfig(fn domain.PageConfigFunc) *ActionBuilder {
	a.action.PageConfig = fn
	return a
}

// TurboFrame names the frame this action answers. The optional configure
// function describes the frame content; without it the action's view is used.
func (a *ActionBuilder) TurboFrame(id string, configure ...func(*FrameBuilder)) *ActionBuilder {
	a.action.TurboFrame = id
	if len(configure) > 0 {
		fb := NewFrame()
		for _, fn := range configure {
			fn(fb)
		}
		a.action.Frame = fb.Build()
	}
	return a
}

// ParamsKey scopes permitted params under a nested key (e.g. "post").
func (a *ActionBuilder) ParamsKey(key string) *ActionBuilder {
	a.action.ParamsKey = key
	return a
}

// Permit stores the permitted attributes, replacing earlier calls.
// Permit() with no attributes permits nothing.
func (a *ActionBuilder) Permit(attrs ...string) *ActionBuilder {
	a.action.Permit = append(make([]string, 0, len(attrs)), attrs...)
	return a
}

// Option sets a free-form option.
func (a *ActionBuilder) Option(key string, value any) *ActionBuilder {
	if a.action.Options == nil {
		a.action.Options = make(map[string]any)
	}
	a.action.Options[key] = value
	return a
}

// OnSuccess evaluates configure once against a fresh ResponseBuilder and
// stores the result as the success table.
func (a *ActionBuilder) OnSuccess(configure func(*ResponseBuilder)) *ActionBuilder {
	a.action.OnSuccess = buildResponse(configure)
	return a
}

// OnError stores the table for category, replacing any earlier table for it.
func (a *ActionBuilder) OnError(category domain.ErrorCategory, configure func(*ResponseBuilder)) *ActionBuilder {
	if a.action.OnError == nil {
		a.action.OnError = make(map[domain.ErrorCategory]*domain.FormatTable)
	}
	a.action.OnError[category] = buildResponse(configure)
	return a
}

// OnAnyError stores the wildcard error table.
func (a *ActionBuilder) OnAnyError(configure func(*ResponseBuilder)) *ActionBuilder {
	return a.OnError(domain.CategoryAny, configure)
}

// Before appends a callback run before the service.
func (a *ActionBuilder) Before(cb domain.Callback) *ActionBuilder {
	a.action.Before = append(a.action.Before, cb)
	return a
}

// After appends a callback run after the response was rendered.
func (a *ActionBuilder) After(cb domain.Callback) *ActionBuilder {
	a.action.After = append(a.action.After, cb)
	return a
}

// SkipAuthentication disables the authenticator for this action (default true).
func (a *ActionBuilder) SkipAuthentication(skip ...bool) *ActionBuilder {
	a.action.SkipAuthentication = flag(skip)
	return a
}

// SkipAuthorization disables the authorizer for this action (default true).
func (a *ActionBuilder) SkipAuthorization(skip ...bool) *ActionBuilder {
	a.action.SkipAuthorization = flag(skip)
	return a
}

// Build returns a snapshot of the configuration. It can be called any number
// of times; later builder calls never alter a returned snapshot.
func (a *ActionBuilder) Build() domain.ActionConfig {
	return a.action.Clone()
}

func buildResponse(configure func(*ResponseBuilder)) *domain.FormatTable {
	rb := NewResponse()
	if configure != nil {
		configure(rb)
	}
	return rb.Build()
}

func flag(v []bool) bool {
	if len(v) == 0 {
		return true
	}
	return v[0]
}
