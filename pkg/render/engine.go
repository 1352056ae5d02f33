// Package render turns responder calls into HTTP responses: JSON, XML and
// CSV encodings, html/template partials, components, pages and the Turbo
// Stream and Turbo Frame envelopes.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// DefaultLayout is the template wrapping full html responses when present.
const DefaultLayout = "layouts/application"

// templateExts lists the file suffixes loaded as templates.
var templateExts = []string{".html.tmpl", ".gohtml", ".tmpl", ".html"}

const builtinPartials = `
{{define "shared/flash"}}<div id="flash" class="flash flash-{{.type}}">{{.message}}</div>{{end}}
{{define "shared/form_errors"}}<ul id="form_errors">{{range .errors}}<li>{{.}}</li>{{end}}</ul>{{end}}
`

// Engine holds the parsed template set. It is safe for concurrent use
// once constructed.
type Engine struct {
	templates *template.Template
	layout    string
	funcs     template.FuncMap
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLayout sets the layout template name. An empty name disables layouts.
func WithLayout(name string) Option {
	return func(e *Engine) {
		e.layout = name
	}
}

// WithFuncs registers extra template functions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for k, v := range funcs {
			e.funcs[k] = v
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New parses every template file found in fsys. A template is named after
// its path without extension ("posts/_form.html" -> "posts/_form").
// fsys may be nil, leaving only the builtin flash and form error partials.
func New(fsys fs.FS, opts ...Option) (*Engine, error) {
	e := &Engine{
		layout: DefaultLayout,
		funcs:  template.FuncMap{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	root := template.New("").Funcs(e.funcs)
	if _, err := root.Parse(builtinPartials); err != nil {
		return nil, fmt.Errorf("failed to parse builtin partials: %w", err)
	}

	if fsys != nil {
		err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			name, ok := templateName(p)
			if !ok {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("failed to read template %s: %w", p, err)
			}
			if _, err := root.New(name).Parse(string(data)); err != nil {
				return fmt.Errorf("failed to parse template %s: %w", p, err)
			}
			e.logger.Debug("template loaded", "name", name, "path", p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	e.templates = root
	return e, nil
}

func templateName(p string) (string, bool) {
	for _, ext := range templateExts {
		if strings.HasSuffix(p, ext) {
			return path.Clean(strings.TrimSuffix(p, ext)), true
		}
	}
	return "", false
}

// Has reports whether a template with the given name exists.
func (e *Engine) Has(name string) bool {
	return e.templates.Lookup(name) != nil
}

// Names lists the loaded template names.
func (e *Engine) Names() []string {
	var names []string
	for _, t := range e.templates.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	return names
}

// Partial executes the named template into w.
func (e *Engine) Partial(w io.Writer, name string, locals map[string]any) error {
	t := e.templates.Lookup(name)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t.Execute(w, locals)
}

// wrap surrounds content with the layout when one is configured and loaded.
func (e *Engine) wrap(content []byte, locals map[string]any) ([]byte, error) {
	if e.layout == "" || !e.Has(e.layout) {
		return content, nil
	}
	data := make(map[string]any, len(locals)+1)
	for k, v := range locals {
		data[k] = v
	}
	data["content"] = template.HTML(content)

	var buf bytes.Buffer
	if err := e.Partial(&buf, e.layout, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
