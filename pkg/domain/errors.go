package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnconfiguredAction is returned when an action has neither a service nor a view to render.
var ErrUnconfiguredAction = errors.New("unconfigured action")

// ErrNoFormatHandler is returned when the negotiated format has no entry in the success table.
var ErrNoFormatHandler = errors.New("no handler for requested format")

// ErrNoErrorHandler is returned when a failure matches neither its category nor the "any" category.
var ErrNoErrorHandler = errors.New("no error handler for category")

// ErrActionNotFound is returned when dispatching an action that was never declared.
var ErrActionNotFound = errors.New("action not found")

// ErrServiceNotFound is returned when a service reference cannot be resolved.
var ErrServiceNotFound = errors.New("service not found")

// Errors services return to select an error category.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// DispatchError reports a failure to resolve or run an action.
// It names the action, format and category involved so the failure can be
// traced back to the declaration.
type DispatchError struct {
	Action   string
	Format   Format
	Category ErrorCategory
	Err      error // sentinel or callback error
	Cause    error // service error that triggered error handling, if any
}

func (e *DispatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "action %q", e.Action)
	if e.Format != "" {
		fmt.Fprintf(&b, " format %q", e.Format)
	}
	if e.Category != "" {
		fmt.Fprintf(&b, " category %q", e.Category)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

func (e *DispatchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
