package dsl

import "github.com/aretw0/actionkit/pkg/domain"

// Builder collects the actions of one controller.
type Builder struct {
	name    string
	order   []string
	actions map[string]*ActionBuilder
}

// New creates a new controller builder.
func New(name string) *Builder {
	return &Builder{
		name:    name,
		actions: make(map[string]*ActionBuilder),
	}
}

// Name returns the controller name.
func (b *Builder) Name() string {
	return b.name
}

// Add creates a new action in the controller.
// If the action already exists, it returns the existing builder.
func (b *Builder) Add(name string) *ActionBuilder {
	if ab, ok := b.actions[name]; ok {
		return ab
	}
	ab := NewAction(name)
	b.actions[name] = ab
	b.order = append(b.order, name)
	return ab
}

// Build returns the built actions in declaration order.
func (b *Builder) Build() []domain.ActionConfig {
	out := make([]domain.ActionConfig, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.actions[name].Build())
	}
	return out
}
