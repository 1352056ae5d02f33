package runtime

import (
	"github.com/aretw0/actionkit/pkg/domain"
)

// renderSuccess picks the success callback for the negotiated format.
// Without an explicit entry, html requests fall back to the action's view
// (inside a frame when the request targets the action's frame).
func (d *Dispatcher) renderSuccess(c *domain.Context) error {
	action := c.Action
	if cb, ok := action.OnSuccess.Lookup(c.Format); ok {
		if err := cb(c); err != nil {
			return d.dispatchError(c, err, nil)
		}
		return nil
	}

	if c.Format == domain.FormatHTML {
		if isFrameRequest(c) {
			if frame, ok := frameFor(action); ok {
				return d.wrap(c, d.renderFrame(c, frame))
			}
		}
		if action.View() != domain.ViewNone {
			return d.wrap(c, d.renderView(c))
		}
	}

	return d.dispatchError(c, domain.ErrNoFormatHandler, nil)
}

func (d *Dispatcher) wrap(c *domain.Context, err error) error {
	if err == nil {
		return nil
	}
	return d.dispatchError(c, err, nil)
}

func isFrameRequest(c *domain.Context) bool {
	return c.Action.TurboFrame != "" && c.Request.FrameID == c.Action.TurboFrame
}

// frameFor returns the declared frame content, or one derived from the view.
func frameFor(action *domain.ActionConfig) (domain.FrameConfig, bool) {
	if !action.Frame.IsZero() {
		return action.Frame, true
	}
	switch action.View() {
	case domain.ViewComponent:
		return domain.FrameConfig{Content: domain.FrameContent{
			Kind:      domain.FrameComponent,
			Component: action.Component.Component,
			Locals:    action.Component.Locals,
		}}, true
	case domain.ViewPage:
		return domain.FrameConfig{Content: domain.FrameContent{Kind: domain.FramePage}}, true
	default:
		return domain.FrameConfig{}, false
	}
}

// renderView renders the page or component according to View precedence.
func (d *Dispatcher) renderView(c *domain.Context) error {
	action := c.Action
	responder := c.Request.Responder
	switch action.View() {
	case domain.ViewPage:
		return responder.Page(c.Status(), action.Page, d.pageConfig(c))
	case domain.ViewComponent:
		locals := d.viewLocals(c)
		for k, v := range action.Component.Locals {
			locals[k] = v
		}
		return responder.Component(c.Status(), action.Component.Component, locals)
	default:
		return domain.ErrUnconfiguredAction
	}
}

func (d *Dispatcher) renderFrame(c *domain.Context, frame domain.FrameConfig) error {
	locals := d.viewLocals(c)
	for k, v := range frame.Content.Locals {
		locals[k] = v
	}
	frame.Content.Locals = locals

	var config map[string]any
	if frame.Content.Kind == domain.FramePage {
		if c.Action.Page == nil {
			return domain.ErrUnconfiguredAction
		}
		config = d.pageConfig(c)
	}
	return c.Request.Responder.Frame(c.Status(), c.Action.TurboFrame, frame, c.Action.Page, config)
}

// pageConfig builds the base configuration and applies the action transform.
func (d *Dispatcher) pageConfig(c *domain.Context) map[string]any {
	config := d.viewLocals(c)
	if c.Action.PageConfig != nil {
		if transformed := c.Action.PageConfig(c, config); transformed != nil {
			config = transformed
		}
	}
	return config
}

// viewLocals returns the base locals plus any queued flash messages.
func (d *Dispatcher) viewLocals(c *domain.Context) map[string]any {
	locals := c.Locals()
	flashes, err := c.Flashes()
	if err != nil {
		d.logger.Warn("failed to drain flash", "action", c.Action.Name, "request_id", c.RequestID, "error", err)
		return locals
	}
	if len(flashes) > 0 {
		locals["flash"] = flashes
	}
	return locals
}
