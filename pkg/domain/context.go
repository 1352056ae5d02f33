package domain

import (
	"context"
	"net/http"
)

// Context is handed to every response and lifecycle callback of a dispatch.
type Context struct {
	context.Context

	RequestID string
	Action    *ActionConfig
	Format    Format
	Request   *Request
	Params    Params

	// Result is the service return value; Failure is set while an error table runs.
	Result   any
	Failure  error
	Category ErrorCategory

	status int
}

// NewContext prepares the context of a dispatch.
func NewContext(ctx context.Context, action *ActionConfig, req *Request) *Context {
	return &Context{
		Context:   ctx,
		RequestID: req.ID,
		Action:    action,
		Format:    req.Format,
		Request:   req,
		Params:    req.Params,
		status:    http.StatusOK,
	}
}

// Status returns the status the helpers render with.
func (c *Context) Status() int {
	return c.status
}

// SetStatus overrides the status used by the render helpers.
func (c *Context) SetStatus(code int) *Context {
	c.status = code
	return c
}

// Locals returns the base locals for views: action, params, result and error.
func (c *Context) Locals() map[string]any {
	locals := map[string]any{
		LocalAction: c.Action.Name,
		LocalParams: c.Params,
		LocalResult: c.Result,
	}
	if c.Failure != nil {
		locals[LocalError] = c.Failure
	}
	return locals
}

func (c *Context) JSON(v any) error {
	return c.Request.Responder.JSON(c.status, v)
}

func (c *Context) XML(v any) error {
	return c.Request.Responder.XML(c.status, v)
}

func (c *Context) CSV(header []string, rows [][]string) error {
	return c.Request.Responder.CSV(c.status, header, rows)
}

// Partial renders a named template; locals are merged over Locals().
func (c *Context) Partial(name string, locals map[string]any) error {
	return c.Request.Responder.Partial(c.status, name, c.merge(locals))
}

// Component renders comp; locals are merged over Locals().
func (c *Context) Component(comp Component, locals map[string]any) error {
	return c.Request.Responder.Component(c.status, comp, c.merge(locals))
}

// Stream renders the ops as a Turbo Stream response. Op locals are merged over Locals().
func (c *Context) Stream(ops []StreamOp) error {
	merged := CloneStreamOps(ops)
	for i := range merged {
		if merged[i].HasContent() {
			merged[i].Locals = c.merge(merged[i].Locals)
		}
	}
	return c.Request.Responder.Stream(c.status, merged)
}

func (c *Context) Redirect(location string) error {
	status := c.status
	if status < 300 || status > 399 {
		status = http.StatusSeeOther
	}
	return c.Request.Responder.Redirect(status, location)
}

func (c *Context) Head() error {
	return c.Request.Responder.Head(c.status)
}

// Flash queues a message for the next page render.
func (c *Context) Flash(kind, message string) error {
	if c.Request.Flash == nil {
		return nil
	}
	return c.Request.Flash(c, Flash{Kind: kind, Message: message})
}

// Flashes drains the queued messages.
func (c *Context) Flashes() ([]Flash, error) {
	if c.Request.Drain == nil {
		return nil, nil
	}
	return c.Request.Drain(c)
}

func (c *Context) merge(locals map[string]any) map[string]any {
	out := c.Locals()
	for k, v := range locals {
		out[k] = v
	}
	return out
}
