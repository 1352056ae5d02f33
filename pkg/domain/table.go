package domain

// Callback renders one response. It receives the dispatch context, which
// carries the service result (or error) and the responder.
type Callback func(c *Context) error

// FormatTable maps response formats to callbacks.
//
// Each format holds at most one callback; redeclaring a format replaces the
// previous callback silently but keeps its original position, so Formats
// reports declaration order.
type FormatTable struct {
	order   []Format
	entries map[Format]Callback
	frozen  bool
}

// NewFormatTable creates an empty, writable table.
func NewFormatTable() *FormatTable {
	return &FormatTable{
		entries: make(map[Format]Callback),
	}
}

// Set stores cb under format f. Writes to a frozen table are ignored.
func (t *FormatTable) Set(f Format, cb Callback) {
	if t.frozen {
		return
	}
	if _, exists := t.entries[f]; !exists {
		t.order = append(t.order, f)
	}
	t.entries[f] = cb
}

// Lookup returns the callback registered for exactly f.
func (t *FormatTable) Lookup(f Format) (Callback, bool) {
	if t == nil {
		return nil, false
	}
	cb, ok := t.entries[f]
	return cb, ok
}

// Resolve looks f up and falls back to the FormatAny entry.
// It reports which key matched.
func (t *FormatTable) Resolve(f Format) (Callback, Format, bool) {
	if cb, ok := t.Lookup(f); ok {
		return cb, f, true
	}
	if cb, ok := t.Lookup(FormatAny); ok {
		return cb, FormatAny, true
	}
	return nil, "", false
}

// Formats returns the declared formats in declaration order.
func (t *FormatTable) Formats() []Format {
	if t == nil {
		return nil
	}
	out := make([]Format, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports the number of formats in the table.
func (t *FormatTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Frozen reports whether the table rejects further writes.
func (t *FormatTable) Frozen() bool {
	return t != nil && t.frozen
}

// Freeze returns a read-only copy of the table.
func (t *FormatTable) Freeze() *FormatTable {
	if t == nil {
		return nil
	}
	c := t.clone()
	c.frozen = true
	return c
}

func (t *FormatTable) clone() *FormatTable {
	c := &FormatTable{
		order:   make([]Format, len(t.order)),
		entries: make(map[Format]Callback, len(t.entries)),
	}
	copy(c.order, t.order)
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}
