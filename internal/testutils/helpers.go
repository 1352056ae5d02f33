// Package testutils holds test doubles shared across packages.
package testutils

import (
	"sync"

	"github.com/aretw0/actionkit/pkg/domain"
)

// Call is one responder invocation captured by Recorder.
type Call struct {
	Kind   string
	Status int
	Value  any
	Locals map[string]any
	Frame  domain.FrameConfig
	Ops    []domain.StreamOp
}

// Recorder implements domain.Responder by capturing calls.
type Recorder struct {
	mu    sync.Mutex
	Calls []Call
}

var _ domain.Responder = (*Recorder)(nil)

// NewRequest returns a request answering through a fresh Recorder.
func NewRequest(format domain.Format, params domain.Params) (*domain.Request, *Recorder) {
	rec := &Recorder{}
	return &domain.Request{
		ID:        "req-1",
		Format:    format,
		Params:    params,
		Responder: rec,
	}, rec
}

// Last returns the most recent call, or the zero Call.
func (r *Recorder) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}

func (r *Recorder) add(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, c)
	return nil
}

func (r *Recorder) JSON(status int, v any) error { return r.add(Call{Kind: "json", Status: status, Value: v}) }
func (r *Recorder) XML(status int, v any) error  { return r.add(Call{Kind: "xml", Status: status, Value: v}) }
func (r *Recorder) CSV(status int, header []string, rows [][]string) error {
	return r.add(Call{Kind: "csv", Status: status, Value: rows})
}
func (r *Recorder) Partial(status int, name string, locals map[string]any) error {
	return r.add(Call{Kind: "partial", Status: status, Value: name, Locals: locals})
}
func (r *Recorder) Component(status int, c domain.Component, locals map[string]any) error {
	return r.add(Call{Kind: "component", Status: status, Value: c, Locals: locals})
}
func (r *Recorder) Page(status int, p domain.Page, config map[string]any) error {
	return r.add(Call{Kind: "page", Status: status, Value: p, Locals: config})
}
func (r *Recorder) Stream(status int, ops []domain.StreamOp) error {
	return r.add(Call{Kind: "stream", Status: status, Ops: ops})
}
func (r *Recorder) Frame(status int, id string, frame domain.FrameConfig, page domain.Page, config map[string]any) error {
	return r.add(Call{Kind: "frame", Status: status, Value: id, Frame: frame, Locals: config})
}
func (r *Recorder) Redirect(status int, location string) error {
	return r.add(Call{Kind: "redirect", Status: status, Value: location})
}
func (r *Recorder) Head(status int) error { return r.add(Call{Kind: "head", Status: status}) }
