package dsl

import "github.com/aretw0/actionkit/pkg/domain"

// ResponseBuilder accumulates one format dispatch table.
// Declaring the same format twice keeps the last callback.
type ResponseBuilder struct {
	table *domain.FormatTable
}

// NewResponse creates an empty response builder.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{table: domain.NewFormatTable()}
}

// Format registers cb for an arbitrary format.
func (r *ResponseBuilder) Format(f domain.Format, cb domain.Callback) *ResponseBuilder {
	r.table.Set(f, cb)
	return r
}

func (r *ResponseBuilder) HTML(cb domain.Callback) *ResponseBuilder {
	return r.Format(domain.FormatHTML, cb)
}

func (r *ResponseBuilder) JSON(cb domain.Callback) *ResponseBuilder {
	return r.Format(domain.FormatJSON, cb)
}

func (r *ResponseBuilder) XML(cb domain.Callback) *ResponseBuilder {
	return r.Format(domain.FormatXML, cb)
}

func (r *ResponseBuilder) CSV(cb domain.Callback) *ResponseBuilder {
	return r.Format(domain.FormatCSV, cb)
}

// TurboStream registers a callback for turbo_stream requests.
func (r *ResponseBuilder) TurboStream(cb domain.Callback) *ResponseBuilder {
	return r.Format(domain.FormatTurboStream, cb)
}

// Streams builds a stream op sequence once and registers a turbo_stream
// callback that renders it.
func (r *ResponseBuilder) Streams(configure func(*StreamBuilder)) *ResponseBuilder {
	sb := NewStream()
	configure(sb)
	ops := sb.Build()
	return r.TurboStream(func(c *domain.Context) error {
		return c.Stream(ops)
	})
}

// Any registers the fallback callback. Only error tables consult it.
func (r *ResponseBuilder) Any(cb domain.Callback) *ResponseBuilder {
	return r.Format(domain.FormatAny, cb)
}

// Build returns a frozen snapshot of the table.
func (r *ResponseBuilder) Build() *domain.FormatTable {
	return r.table.Freeze()
}
