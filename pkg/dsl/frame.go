package dsl

import "github.com/aretw0/actionkit/pkg/domain"

// FrameBuilder describes the single render target of a Turbo Frame response.
// Component, Partial and RenderPage overwrite each other: the last call wins
// and conflicting calls are not reported.
type FrameBuilder struct {
	content domain.FrameContent
	layout  *bool
}

// NewFrame creates an empty frame builder.
func NewFrame() *FrameBuilder {
	return &FrameBuilder{}
}

func (f *FrameBuilder) Component(c domain.Component, locals map[string]any) *FrameBuilder {
	f.content = domain.FrameContent{Kind: domain.FrameComponent, Component: c, Locals: locals}
	return f
}

func (f *FrameBuilder) Partial(path string, locals map[string]any) *FrameBuilder {
	f.content = domain.FrameContent{Kind: domain.FramePartial, Partial: path, Locals: locals}
	return f
}

// RenderPage renders the action's page inside the frame.
func (f *FrameBuilder) RenderPage() *FrameBuilder {
	f.content = domain.FrameContent{Kind: domain.FramePage}
	return f
}

// Layout overrides whether the layout wraps the frame (default false).
func (f *FrameBuilder) Layout(enabled bool) *FrameBuilder {
	f.layout = &enabled
	return f
}

// Build returns the frame configuration; the layout flag is false unless set.
func (f *FrameBuilder) Build() domain.FrameConfig {
	content := f.content
	if content.Locals != nil {
		locals := make(map[string]any, len(content.Locals))
		for k, v := range content.Locals {
			locals[k] = v
		}
		content.Locals = locals
	}
	return domain.FrameConfig{
		Content: content,
		Layout:  f.layout != nil && *f.layout,
	}
}
