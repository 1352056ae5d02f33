package dsl

import "github.com/aretw0/actionkit/pkg/domain"

// Content is the optional body of a stream op: a partial or a component, with locals.
type Content struct {
	Partial   string
	Component domain.Component
	Locals    map[string]any
}

// StreamBuilder accumulates Turbo Stream ops in declaration order.
// Ops are never merged or de-duplicated.
type StreamBuilder struct {
	ops []domain.StreamOp
}

// NewStream creates an empty stream builder.
func NewStream() *StreamBuilder {
	return &StreamBuilder{}
}

func (s *StreamBuilder) push(action domain.StreamAction, target string, content Content) *StreamBuilder {
	s.ops = append(s.ops, domain.StreamOp{
		Action:    action,
		Target:    target,
		Component: content.Component,
		Partial:   content.Partial,
		Locals:    content.Locals,
	})
	return s
}

func (s *StreamBuilder) Append(target string, content Content) *StreamBuilder {
	return s.push(domain.StreamAppend, target, content)
}

func (s *StreamBuilder) Prepend(target string, content Content) *StreamBuilder {
	return s.push(domain.StreamPrepend, target, content)
}

func (s *StreamBuilder) Replace(target string, content Content) *StreamBuilder {
	return s.push(domain.StreamReplace, target, content)
}

func (s *StreamBuilder) Update(target string, content Content) *StreamBuilder {
	return s.push(domain.StreamUpdate, target, content)
}

func (s *StreamBuilder) Remove(target string) *StreamBuilder {
	return s.push(domain.StreamRemove, target, Content{})
}

func (s *StreamBuilder) Before(target string, content Content) *StreamBuilder {
	return s.push(domain.StreamBefore, target, content)
}

func (s *StreamBuilder) After(target string, content Content) *StreamBuilder {
	return s.push(domain.StreamAfter, target, content)
}

// Flash updates the flash region with the shared flash partial.
func (s *StreamBuilder) Flash(kind, message string) *StreamBuilder {
	return s.Update(domain.FlashTarget, Content{
		Partial: domain.FlashPartial,
		Locals:  map[string]any{"type": kind, "message": message},
	})
}

// FormErrors updates the form errors region. An empty target uses the default region.
func (s *StreamBuilder) FormErrors(errs any, target string) *StreamBuilder {
	if target == "" {
		target = domain.FormErrorsTarget
	}
	return s.Update(target, Content{
		Partial: domain.FormErrorsPartial,
		Locals:  map[string]any{"errors": errs},
	})
}

// Refresh asks the client to refresh the page. It has no target.
func (s *StreamBuilder) Refresh() *StreamBuilder {
	return s.push(domain.StreamRefresh, "", Content{})
}

// Build returns a copy of the accumulated ops in declaration order.
func (s *StreamBuilder) Build() []domain.StreamOp {
	return domain.CloneStreamOps(s.ops)
}
