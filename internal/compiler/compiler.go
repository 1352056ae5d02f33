package compiler

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/aretw0/actionkit"
	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/dsl"
	"github.com/aretw0/actionkit/pkg/registry"
	"github.com/go-playground/validator/v10"
)

// Views renders named templates. *render.Engine satisfies it.
type Views interface {
	Has(name string) bool
	Partial(w io.Writer, name string, locals map[string]any) error
}

// Compiler builds controllers from definitions.
type Compiler struct {
	registry *registry.Registry
	views    Views
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Compiler.
type Option func(*Compiler)

// WithViews enables view and turbo_frame declarations and checks partial names.
func WithViews(v Views) Option {
	return func(c *Compiler) {
		c.views = v
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a compiler resolving services in reg.
func New(reg *registry.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile checks def against the registry and the views, then builds its actions.
// All problems are reported together.
func (c *Compiler) Compile(def *Definition) ([]domain.ActionConfig, error) {
	if err := c.Check(def); err != nil {
		return nil, err
	}

	b := dsl.New(def.Controller)
	for _, act := range def.Actions {
		c.action(b.Add(act.Name), act)
	}
	return b.Build(), nil
}

// Build compiles def into a controller sharing the compiler registry.
func (c *Compiler) Build(def *Definition, opts ...actionkit.Option) (*actionkit.Controller, error) {
	cfgs, err := c.Compile(def)
	if err != nil {
		return nil, err
	}
	opts = append([]actionkit.Option{actionkit.WithRegistry(c.registry)}, opts...)
	ctrl := actionkit.New(def.Controller, opts...).Declare(cfgs...)
	c.logger.Debug("controller compiled", "controller", def.Controller, "actions", len(cfgs))
	return ctrl, nil
}

// Check reports unknown services, formats, categories and templates.
func (c *Compiler) Check(def *Definition) error {
	var errs []error
	fail := func(action, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s#%s: %s", def.Controller, action, fmt.Sprintf(format, args...)))
	}

	for _, act := range def.Actions {
		if act.Service == "" && act.View == "" {
			fail(act.Name, "needs a service or a view")
		}
		if act.Service != "" {
			if _, err := c.registry.Resolve(act.Service, act.Method); err != nil {
				fail(act.Name, "%v", err)
			}
		}
		if act.View != "" {
			c.checkTemplate(act.View, func(msg string) { fail(act.Name, "view %s", msg) })
		}
		if f := act.TurboFrame; f != nil {
			switch {
			case f.Partial != "":
				c.checkTemplate(f.Partial, func(msg string) { fail(act.Name, "turbo_frame %s", msg) })
			case act.View == "":
				fail(act.Name, "turbo_frame %q has neither a partial nor a view", f.ID)
			}
		}
		for format, resp := range act.OnSuccess {
			if domain.ParseFormat(format) == domain.FormatAny {
				fail(act.Name, "on_success cannot use the any format")
			}
			c.checkResponse(resp, func(msg string) { fail(act.Name, "on_success.%s: %s", format, msg) })
		}
		for category, table := range act.OnError {
			if !knownCategory(domain.ErrorCategory(category)) {
				fail(act.Name, "unknown error category %q", category)
			}
			for format, resp := range table {
				c.checkResponse(resp, func(msg string) { fail(act.Name, "on_error.%s.%s: %s", category, format, msg) })
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Compiler) checkTemplate(name string, fail func(string)) {
	switch {
	case c.views == nil:
		fail(fmt.Sprintf("%q needs a template directory", name))
	case !c.views.Has(name):
		fail(fmt.Sprintf("%q not found", name))
	}
}

func (c *Compiler) checkResponse(resp Response, fail func(string)) {
	if resp.Render == RenderPartial {
		c.checkTemplate(resp.Partial, fail)
	}
	for _, op := range resp.Streams {
		switch op.Action {
		case "flash", "form_errors", "refresh":
		default:
			if op.Target == "" {
				fail(fmt.Sprintf("stream %s needs a target", op.Action))
			}
		}
		if op.Partial != "" {
			c.checkTemplate(op.Partial, fail)
		}
	}
}

func knownCategory(cat domain.ErrorCategory) bool {
	switch cat {
	case domain.CategoryAny, domain.CategoryNotFound, domain.CategoryInvalid,
		domain.CategoryUnauthenticated, domain.CategoryForbidden, domain.CategoryInternal:
		return true
	}
	return false
}

func (c *Compiler) action(a *dsl.ActionBuilder, act Action) {
	if act.Service != "" {
		a.Service(act.Service, act.Method)
	}
	if act.ParamsKey != "" {
		a.ParamsKey(act.ParamsKey)
	}
	if act.Permit != nil {
		a.Permit(act.Permit...)
	}
	if act.View != "" {
		a.Component(c.partialComponent(act.View), nil)
	}
	switch f := act.TurboFrame; {
	case f == nil:
	case f.Partial == "" && !f.Layout:
		a.TurboFrame(f.ID)
	default:
		a.TurboFrame(f.ID, func(fb *dsl.FrameBuilder) {
			if f.Partial != "" {
				fb.Partial(f.Partial, nil)
			} else {
				fb.Component(c.partialComponent(act.View), nil)
			}
			fb.Layout(f.Layout)
		})
	}
	if r := act.Route; r != nil {
		if r.Method != "" {
			a.Option(httpadapter.OptionMethod, strings.ToUpper(r.Method))
		}
		if r.Path != "" {
			a.Option(httpadapter.OptionPath, r.Path)
		}
	}
	a.SkipAuthentication(act.SkipAuthentication).
		SkipAuthorization(act.SkipAuthorization)

	if len(act.OnSuccess) > 0 {
		a.OnSuccess(c.table(act.OnSuccess))
	}
	for category, table := range act.OnError {
		a.OnError(domain.ErrorCategory(category), c.table(table))
	}
}

// partialComponent adapts a template to a component.
func (c *Compiler) partialComponent(name string) domain.Component {
	if name == "" || c.views == nil {
		return nil
	}
	views := c.views
	return domain.ComponentFunc(func(_ context.Context, w io.Writer, locals map[string]any) error {
		return views.Partial(w, name, locals)
	})
}

func (c *Compiler) table(responses Responses) func(*dsl.ResponseBuilder) {
	formats := make([]string, 0, len(responses))
	for f := range responses {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return func(r *dsl.ResponseBuilder) {
		for _, f := range formats {
			r.Format(domain.ParseFormat(f), callback(responses[f]))
		}
	}
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

func callback(resp Response) domain.Callback {
	return func(ctx *domain.Context) error {
		if resp.Status != 0 {
			ctx.SetStatus(resp.Status)
		}
		if resp.Flash != nil {
			if err := ctx.Flash(resp.Flash.Type, resp.Flash.Message); err != nil {
				return err
			}
		}

		switch resp.Render {
		case RenderJSON:
			return ctx.JSON(payload(ctx))
		case RenderXML:
			if ctx.Failure != nil {
				return ctx.XML(xmlError{Category: string(ctx.Category), Message: ctx.Failure.Error()})
			}
			return ctx.XML(xmlPayload(ctx.Result))
		case RenderPartial:
			return ctx.Partial(resp.Partial, resp.Locals)
		case RenderStream:
			return ctx.Stream(streamOps(ctx, resp.Streams))
		case RenderHead:
			return ctx.Head()
		case RenderRedirect:
			return ctx.Redirect(placeholder.ReplaceAllStringFunc(resp.Location, func(m string) string {
				return url.PathEscape(ctx.Params.String(m[1 : len(m)-1]))
			}))
		}
		return fmt.Errorf("unknown render kind %q", resp.Render)
	}
}

func payload(ctx *domain.Context) any {
	if ctx.Failure != nil {
		return map[string]any{"error": ctx.Failure.Error(), "category": ctx.Category}
	}
	return ctx.Result
}

type xmlError struct {
	XMLName  xml.Name `xml:"error"`
	Category string   `xml:"category,attr"`
	Message  string   `xml:",chardata"`
}

// xmlPayload wraps map results, which encoding/xml cannot marshal, as
// <result><key>value</key>...</result> with keys sorted.
func xmlPayload(v any) any {
	if m, ok := stringMap(v); ok {
		return xmlMap{name: "result", fields: m}
	}
	return v
}

type xmlMap struct {
	name   string
	fields map[string]any
}

func (m xmlMap) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: m.name}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	keys := make([]string, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := encodeXMLValue(e, xmlName(k), m.fields[k]); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func encodeXMLValue(e *xml.Encoder, name string, v any) error {
	if nested, ok := stringMap(v); ok {
		return xmlMap{name: name, fields: nested}.MarshalXML(e, xml.StartElement{})
	}
	el := xml.StartElement{Name: xml.Name{Local: name}}
	if v == nil {
		return e.EncodeElement("", el)
	}
	// Lists repeat the element; []byte stays character data.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			if err := encodeXMLValue(e, name, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	return e.EncodeElement(v, el)
}

// stringMap converts any map keyed by strings, domain.Params included.
func stringMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

var invalidXMLName = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// xmlName turns a map key into a valid element name.
func xmlName(key string) string {
	name := invalidXMLName.ReplaceAllString(key, "_")
	if name == "" || !unicode.IsLetter(rune(name[0])) && name[0] != '_' {
		name = "_" + name
	}
	return name
}

func streamOps(ctx *domain.Context, ops []StreamOp) []domain.StreamOp {
	sb := dsl.NewStream()
	for _, op := range ops {
		content := dsl.Content{Partial: op.Partial, Locals: op.Locals}
		switch op.Action {
		case "append":
			sb.Append(op.Target, content)
		case "prepend":
			sb.Prepend(op.Target, content)
		case "replace":
			sb.Replace(op.Target, content)
		case "update":
			sb.Update(op.Target, content)
		case "remove":
			sb.Remove(op.Target)
		case "before":
			sb.Before(op.Target, content)
		case "after":
			sb.After(op.Target, content)
		case "flash":
			sb.Flash(op.Type, op.Message)
		case "form_errors":
			sb.FormErrors(formErrors(ctx.Failure), op.Target)
		case "refresh":
			sb.Refresh()
		}
	}
	return sb.Build()
}

// formErrors lists one message per failed field for validation errors,
// otherwise the failure message.
func formErrors(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return msgs
	}
	return []string{err.Error()}
}
