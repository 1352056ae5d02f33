package render

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/aretw0/actionkit/pkg/domain"
)

// ErrTemplateNotFound is returned when a partial name is not loaded.
var ErrTemplateNotFound = errors.New("template not found")

// ErrEmptyFrame is returned when a frame has no content descriptor.
var ErrEmptyFrame = errors.New("turbo frame has no content")

const (
	ContentTypeHTML   = "text/html; charset=utf-8"
	ContentTypeJSON   = "application/json; charset=utf-8"
	ContentTypeXML    = "application/xml; charset=utf-8"
	ContentTypeCSV    = "text/csv; charset=utf-8"
	ContentTypeStream = "text/vnd.turbo-stream.html; charset=utf-8"
)

// Responder writes responses for a single request. Bodies are rendered
// into a buffer first so a failing template never leaves a half-written
// response behind.
type Responder struct {
	engine *Engine
	w      http.ResponseWriter
	r      *http.Request
}

var _ domain.Responder = (*Responder)(nil)

// Responder binds the engine to one request.
func (e *Engine) Responder(w http.ResponseWriter, r *http.Request) *Responder {
	return &Responder{engine: e, w: w, r: r}
}

func (rs *Responder) ctx() context.Context {
	if rs.r == nil {
		return context.Background()
	}
	return rs.r.Context()
}

func (rs *Responder) write(status int, contentType string, body []byte) error {
	h := rs.w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	rs.w.WriteHeader(status)
	_, err := rs.w.Write(body)
	return err
}

func (rs *Responder) JSON(status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return rs.write(status, ContentTypeJSON, buf.Bytes())
}

func (rs *Responder) XML(status int, v any) error {
	body, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode xml: %w", err)
	}
	return rs.write(status, ContentTypeXML, append([]byte(xml.Header), body...))
}

func (rs *Responder) CSV(status int, header []string, rows [][]string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to encode csv: %w", err)
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	return rs.write(status, ContentTypeCSV, buf.Bytes())
}

// Partial renders a template inside the layout.
func (rs *Responder) Partial(status int, name string, locals map[string]any) error {
	var buf bytes.Buffer
	if err := rs.engine.Partial(&buf, name, locals); err != nil {
		return err
	}
	return rs.html(status, buf.Bytes(), locals)
}

// Component renders a component inside the layout.
func (rs *Responder) Component(status int, c domain.Component, locals map[string]any) error {
	var buf bytes.Buffer
	if err := c.Render(rs.ctx(), &buf, locals); err != nil {
		return fmt.Errorf("failed to render component: %w", err)
	}
	return rs.html(status, buf.Bytes(), locals)
}

// Page renders a full page. Pages own their document and are never wrapped.
func (rs *Responder) Page(status int, p domain.Page, config map[string]any) error {
	var buf bytes.Buffer
	if err := p.Render(rs.ctx(), &buf, config); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return rs.write(status, ContentTypeHTML, buf.Bytes())
}

func (rs *Responder) html(status int, content []byte, locals map[string]any) error {
	body, err := rs.engine.wrap(content, locals)
	if err != nil {
		return err
	}
	return rs.write(status, ContentTypeHTML, body)
}

// Stream renders ops as consecutive <turbo-stream> elements.
func (rs *Responder) Stream(status int, ops []domain.StreamOp) error {
	var buf bytes.Buffer
	for _, op := range ops {
		if err := rs.streamOp(&buf, op); err != nil {
			return err
		}
	}
	return rs.write(status, ContentTypeStream, buf.Bytes())
}

func (rs *Responder) streamOp(buf *bytes.Buffer, op domain.StreamOp) error {
	fmt.Fprintf(buf, `<turbo-stream action="%s"`, template.HTMLEscapeString(string(op.Action)))
	if op.Target != "" {
		fmt.Fprintf(buf, ` target="%s"`, template.HTMLEscapeString(op.Target))
	}
	buf.WriteString(">")

	if op.HasContent() {
		buf.WriteString("<template>")
		var err error
		if op.Component != nil {
			err = op.Component.Render(rs.ctx(), buf, op.Locals)
		} else {
			err = rs.engine.Partial(buf, op.Partial, op.Locals)
		}
		if err != nil {
			return fmt.Errorf("failed to render stream %s %q: %w", op.Action, op.Target, err)
		}
		buf.WriteString("</template>")
	}
	buf.WriteString("</turbo-stream>\n")
	return nil
}

// Frame renders the frame content wrapped in <turbo-frame id>. With
// Layout set, the frame is placed inside the application layout.
func (rs *Responder) Frame(status int, id string, frame domain.FrameConfig, page domain.Page, config map[string]any) error {
	var inner bytes.Buffer
	content := frame.Content
	var err error
	switch content.Kind {
	case domain.FrameComponent:
		if content.Component == nil {
			return ErrEmptyFrame
		}
		err = content.Component.Render(rs.ctx(), &inner, content.Locals)
	case domain.FramePartial:
		err = rs.engine.Partial(&inner, content.Partial, content.Locals)
	case domain.FramePage:
		if page == nil {
			return ErrEmptyFrame
		}
		err = page.Render(rs.ctx(), &inner, config)
	default:
		return ErrEmptyFrame
	}
	if err != nil {
		return fmt.Errorf("failed to render frame %q: %w", id, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<turbo-frame id="%s">`, template.HTMLEscapeString(id))
	buf.Write(inner.Bytes())
	buf.WriteString("</turbo-frame>")

	if !frame.Layout {
		return rs.write(status, ContentTypeHTML, buf.Bytes())
	}
	return rs.html(status, buf.Bytes(), content.Locals)
}

func (rs *Responder) Redirect(status int, location string) error {
	if rs.r != nil {
		http.Redirect(rs.w, rs.r, location, status)
		return nil
	}
	rs.w.Header().Set("Location", location)
	rs.w.WriteHeader(status)
	return nil
}

func (rs *Responder) Head(status int) error {
	rs.w.WriteHeader(status)
	return nil
}
