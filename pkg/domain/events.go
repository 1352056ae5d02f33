package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatchStart EventType = "dispatch_start"
	EventDispatchEnd   EventType = "dispatch_end"
	EventServiceCall   EventType = "service_call"
	EventServiceReturn EventType = "service_return"
)

// Outcome of a dispatch, as reported in DispatchEvent.
const (
	OutcomeSuccess = "success"
	OutcomeHandled = "handled_error"
	OutcomeFailed  = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id"`
}

// DispatchEvent represents the start or end of an action dispatch.
type DispatchEvent struct {
	EventBase
	Action   string        `json:"action"`
	Format   Format        `json:"format"`
	Outcome  string        `json:"outcome,omitempty"`
	Category ErrorCategory `json:"category,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// ServiceEvent represents a service invocation.
type ServiceEvent struct {
	EventBase
	Action   string        `json:"action"`
	Service  string        `json:"service"`
	IsError  bool          `json:"is_error,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for dispatcher observability.
type LifecycleHooks struct {
	OnDispatchStart func(context.Context, *DispatchEvent)
	OnDispatchEnd   func(context.Context, *DispatchEvent)
	OnServiceCall   func(context.Context, *ServiceEvent)
	OnServiceReturn func(context.Context, *ServiceEvent)
}
