package domain

import (
	"context"
	"net/http"
)

// Responder writes one response. It is implemented by the rendering layer
// and bound to a single request.
type Responder interface {
	JSON(status int, v any) error
	XML(status int, v any) error
	CSV(status int, header []string, rows [][]string) error
	Partial(status int, name string, locals map[string]any) error
	Component(status int, c Component, locals map[string]any) error
	Page(status int, p Page, config map[string]any) error
	Stream(status int, ops []StreamOp) error
	Frame(status int, id string, frame FrameConfig, page Page, config map[string]any) error
	Redirect(status int, location string) error
	Head(status int) error
}

// FlashFunc queues a one-time message for the next rendered page.
type FlashFunc func(ctx context.Context, f Flash) error

// DrainFunc returns and clears the queued messages.
type DrainFunc func(ctx context.Context) ([]Flash, error)

// Request is the dispatcher input assembled by a transport adapter.
type Request struct {
	ID     string
	Format Format
	// FrameID is the value of the Turbo-Frame header, if any.
	FrameID string
	Params  Params
	// Path holds route parameters; they survive permit filtering.
	Path map[string]string
	HTTP *http.Request
	// Err is a failure decoding the request body. It is answered through
	// the action's error tables once the guards pass.
	Err error

	Responder Responder
	Flash     FlashFunc
	Drain     DrainFunc
}

// Flash is a one-time message shown on the next page render.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
