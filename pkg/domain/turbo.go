package domain

// StreamAction is the DOM mutation a Turbo Stream performs.
type StreamAction string

const (
	StreamAppend  StreamAction = "append"
	StreamPrepend StreamAction = "prepend"
	StreamReplace StreamAction = "replace"
	StreamUpdate  StreamAction = "update"
	StreamRemove  StreamAction = "remove"
	StreamBefore  StreamAction = "before"
	StreamAfter   StreamAction = "after"
	StreamRefresh StreamAction = "refresh"
)

// StreamOp is one Turbo Stream instruction. Component and Partial are
// alternatives; Remove and Refresh carry neither.
type StreamOp struct {
	Action    StreamAction   `json:"action"`
	Target    string         `json:"target,omitempty"`
	Component Component      `json:"-"`
	Partial   string         `json:"partial,omitempty"`
	Locals    map[string]any `json:"locals,omitempty"`
}

// HasContent reports whether the op renders a template body.
func (o StreamOp) HasContent() bool {
	return o.Component != nil || o.Partial != ""
}

// FrameContentKind tells which descriptor a FrameConfig holds.
type FrameContentKind string

const (
	FrameNone      FrameContentKind = ""
	FrameComponent FrameContentKind = "component"
	FramePartial   FrameContentKind = "partial"
	FramePage      FrameContentKind = "page"
)

// FrameContent is the single render target of a Turbo Frame response.
type FrameContent struct {
	Kind      FrameContentKind `json:"kind"`
	Component Component        `json:"-"`
	Partial   string           `json:"partial,omitempty"`
	Locals    map[string]any   `json:"locals,omitempty"`
}

// FrameConfig describes how to answer a Turbo Frame request.
// Layout is false unless explicitly enabled.
type FrameConfig struct {
	Content FrameContent `json:"config"`
	Layout  bool         `json:"layout"`
}

// IsZero reports whether no content descriptor was set.
func (f FrameConfig) IsZero() bool {
	return f.Content.Kind == FrameNone
}

func cloneLocals(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CloneStreamOps copies ops and their locals.
func CloneStreamOps(ops []StreamOp) []StreamOp {
	if ops == nil {
		return nil
	}
	out := make([]StreamOp, len(ops))
	for i, op := range ops {
		op.Locals = cloneLocals(op.Locals)
		out[i] = op
	}
	return out
}
