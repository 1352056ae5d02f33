package domain

import (
	"context"
	"io"
)

// Component renders a reusable fragment with the given locals.
type Component interface {
	Render(ctx context.Context, w io.Writer, locals map[string]any) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, w io.Writer, locals map[string]any) error

func (f ComponentFunc) Render(ctx context.Context, w io.Writer, locals map[string]any) error {
	return f(ctx, w, locals)
}

// Page renders a full page from a page configuration.
type Page interface {
	Render(ctx context.Context, w io.Writer, config map[string]any) error
}

// PageFunc adapts a function to Page.
type PageFunc func(ctx context.Context, w io.Writer, config map[string]any) error

func (f PageFunc) Render(ctx context.Context, w io.Writer, config map[string]any) error {
	return f(ctx, w, config)
}

// PageConfigFunc transforms the base page configuration before the page is rendered.
type PageConfigFunc func(c *Context, config map[string]any) map[string]any

// ComponentRef is a component together with its default locals.
type ComponentRef struct {
	Component Component
	Locals    map[string]any
}

// ViewKind identifies which view an action renders when no explicit html handler exists.
type ViewKind string

const (
	ViewNone      ViewKind = ""
	ViewPage      ViewKind = "page"
	ViewComponent ViewKind = "component"
)
