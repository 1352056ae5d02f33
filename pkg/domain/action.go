package domain

import "context"

// ServiceFunc performs the business logic of an action.
type ServiceFunc func(ctx context.Context, params Params) (any, error)

// Service is an object exposing the default "call" method.
type Service interface {
	Call(ctx context.Context, params Params) (any, error)
}

// MethodSet is implemented by service objects exposing several named methods.
type MethodSet interface {
	Methods() map[string]ServiceFunc
}

// ServiceRef records which service an action invokes and how.
// Target is a ServiceFunc, a Service, a MethodSet or a registry name (string).
// It is not validated until dispatch.
type ServiceRef struct {
	Target any
	Method string
}

// Name returns a printable identifier for the reference.
func (r *ServiceRef) Name() string {
	if r == nil {
		return ""
	}
	switch t := r.Target.(type) {
	case string:
		return t + "#" + r.Method
	case nil:
		return ""
	default:
		return "func#" + r.Method
	}
}

// ActionConfig is the frozen declaration of one controller action.
// It is built once and shared read-only by concurrent requests.
type ActionConfig struct {
	Name    string
	Options map[string]any

	Service *ServiceRef

	Page       Page
	Component  *ComponentRef
	PageConfig PageConfigFunc

	TurboFrame string
	Frame      FrameConfig

	ParamsKey string
	// Permit is nil when no filtering applies; an empty slice permits nothing.
	Permit []string

	OnSuccess *FormatTable
	OnError   map[ErrorCategory]*FormatTable

	Before []Callback
	After  []Callback

	SkipAuthentication bool
	SkipAuthorization  bool
}

// View resolves which view renders the action.
// A page wins only when a page-config transform exists; otherwise the
// component is preferred, and the page is the last resort.
func (a *ActionConfig) View() ViewKind {
	switch {
	case a.Page != nil && a.PageConfig != nil:
		return ViewPage
	case a.Component != nil && a.Component.Component != nil:
		return ViewComponent
	case a.Page != nil:
		return ViewPage
	default:
		return ViewNone
	}
}

// Configured reports whether the action has something to do at dispatch time.
func (a *ActionConfig) Configured() bool {
	return a.Service != nil || a.View() != ViewNone
}

// ErrorTable returns the table for category, falling back to CategoryAny.
// It reports the category that matched.
func (a *ActionConfig) ErrorTable(category ErrorCategory) (*FormatTable, ErrorCategory, bool) {
	if t, ok := a.OnError[category]; ok && t != nil {
		return t, category, true
	}
	if t, ok := a.OnError[CategoryAny]; ok && t != nil {
		return t, CategoryAny, true
	}
	return nil, "", false
}

// Clone returns a deep copy; format tables in the copy are frozen.
func (a ActionConfig) Clone() ActionConfig {
	out := a
	out.Options = cloneLocals(a.Options)
	if a.Service != nil {
		s := *a.Service
		out.Service = &s
	}
	if a.Component != nil {
		c := ComponentRef{Component: a.Component.Component, Locals: cloneLocals(a.Component.Locals)}
		out.Component = &c
	}
	out.Frame.Content.Locals = cloneLocals(a.Frame.Content.Locals)
	if a.Permit != nil {
		out.Permit = append(make([]string, 0, len(a.Permit)), a.Permit...)
	}
	out.OnSuccess = a.OnSuccess.Freeze()
	if a.OnError != nil {
		out.OnError = make(map[ErrorCategory]*FormatTable, len(a.OnError))
		for k, v := range a.OnError {
			out.OnError[k] = v.Freeze()
		}
	}
	if a.Before != nil {
		out.Before = append(make([]Callback, 0, len(a.Before)), a.Before...)
	}
	if a.After != nil {
		out.After = append(make([]Callback, 0, len(a.After)), a.After...)
	}
	return out
}
