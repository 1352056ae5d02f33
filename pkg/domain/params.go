package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Params holds request parameters merged from query, form and body.
type Params map[string]any

// Scope returns the nested parameters under key.
// An empty key returns p itself; a missing or non-map value returns an empty set.
func (p Params) Scope(key string) Params {
	if key == "" {
		return p
	}
	switch v := p[key].(type) {
	case Params:
		return v
	case map[string]any:
		return Params(v)
	default:
		return Params{}
	}
}

// Permit returns the subset of p named by attrs.
// A nil attrs list means "do not filter" and returns p unchanged;
// an empty non-nil list permits nothing.
func (p Params) Permit(attrs []string) Params {
	if attrs == nil {
		return p
	}
	out := make(Params, len(attrs))
	for _, a := range attrs {
		if v, ok := p[a]; ok {
			out[a] = v
		}
	}
	return out
}

// String returns the value under key as a string, or "".
func (p Params) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Decode copies the parameters into out, a pointer to a struct.
// Fields are matched by their json tag and string inputs are weakly converted.
func (p Params) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build params decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return WithCategory(CategoryInvalid, fmt.Errorf("failed to decode params: %w", err))
	}
	return nil
}
