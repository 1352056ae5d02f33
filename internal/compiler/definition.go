// Package compiler turns declarative controller definitions into action configurations.
package compiler

// Render kinds of a declared response.
const (
	RenderJSON     = "json"
	RenderXML      = "xml"
	RenderPartial  = "partial"
	RenderStream   = "stream"
	RenderHead     = "head"
	RenderRedirect = "redirect"
)

// Definition describes one controller.
type Definition struct {
	Controller string   `json:"controller" validate:"required" jsonschema:"description=Controller name used in routes and metrics"`
	Path       string   `json:"path,omitempty" jsonschema:"description=Mount prefix; defaults to /<controller>"`
	Actions    []Action `json:"actions" validate:"required,min=1,dive"`
}

// Action mirrors the action DSL.
type Action struct {
	Name               string               `json:"name" validate:"required"`
	Service            string               `json:"service,omitempty" jsonschema:"description=Registry name of the service"`
	Method             string               `json:"method,omitempty"`
	ParamsKey          string               `json:"params_key,omitempty"`
	Permit             []string             `json:"permit,omitempty"`
	View               string               `json:"view,omitempty" jsonschema:"description=Template rendered for html when no html response is declared"`
	TurboFrame         *Frame               `json:"turbo_frame,omitempty"`
	Route              *Route               `json:"route,omitempty"`
	SkipAuthentication bool                 `json:"skip_authentication,omitempty"`
	SkipAuthorization  bool                 `json:"skip_authorization,omitempty"`
	OnSuccess          Responses            `json:"on_success,omitempty" validate:"dive"`
	OnError            map[string]Responses `json:"on_error,omitempty" validate:"dive,dive"`
}

// Frame declares the Turbo Frame an action answers.
type Frame struct {
	ID      string `json:"id" validate:"required"`
	Partial string `json:"partial,omitempty"`
	Layout  bool   `json:"layout,omitempty"`
}

// Route overrides the conventional route of an action.
type Route struct {
	Method string `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE get post put patch delete"`
	Path   string `json:"path,omitempty"`
}

// Responses maps a format name (html, json, turbo_stream, any...) to its response.
type Responses map[string]Response

// Response is one entry of a format table.
type Response struct {
	Render   string         `json:"render" validate:"required,oneof=json xml partial stream head redirect" jsonschema:"enum=json,enum=xml,enum=partial,enum=stream,enum=head,enum=redirect"`
	Status   int            `json:"status,omitempty" validate:"omitempty,min=100,max=599"`
	Partial  string         `json:"partial,omitempty" validate:"required_if=Render partial"`
	Location string         `json:"location,omitempty" validate:"required_if=Render redirect" jsonschema:"description=Redirect target; {name} is replaced by the param of that name"`
	Locals   map[string]any `json:"locals,omitempty"`
	Flash    *FlashMessage  `json:"flash,omitempty"`
	Streams  []StreamOp     `json:"streams,omitempty" validate:"required_if=Render stream,dive"`
}

// FlashMessage is queued before the response renders.
type FlashMessage struct {
	Type    string `json:"type" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// StreamOp is one Turbo Stream operation. flash and form_errors use the shared partials.
type StreamOp struct {
	Action  string         `json:"action" validate:"required,oneof=append prepend replace update remove before after flash form_errors refresh" jsonschema:"enum=append,enum=prepend,enum=replace,enum=update,enum=remove,enum=before,enum=after,enum=flash,enum=form_errors,enum=refresh"`
	Target  string         `json:"target,omitempty"`
	Partial string         `json:"partial,omitempty"`
	Locals  map[string]any `json:"locals,omitempty"`
	Type    string         `json:"type,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Prefix returns the path the controller is mounted at.
func (d *Definition) Prefix() string {
	if d.Path != "" {
		return d.Path
	}
	return "/" + d.Controller
}
