package http

import (
	"context"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/munnerz/goautoneg"
)

// HeaderTurboFrame carries the id of the frame that issued the request.
const HeaderTurboFrame = "Turbo-Frame"

type extKey struct{}

// Negotiator resolves the response format of a request.
type Negotiator struct {
	mimes   map[domain.Format]string
	formats map[string]domain.Format
	// alternatives in server preference order; html first so "*/*" picks it.
	alternatives []string
}

// NewNegotiator builds a negotiator over the given format to media type
// table. A nil table uses domain.DefaultMIMETypes.
func NewNegotiator(mimes map[domain.Format]string) *Negotiator {
	if mimes == nil {
		mimes = domain.DefaultMIMETypes
	}
	n := &Negotiator{
		mimes:   make(map[domain.Format]string, len(mimes)),
		formats: make(map[string]domain.Format, len(mimes)),
	}
	for f, m := range mimes {
		n.mimes[f] = m
		n.formats[m] = f
	}
	if m, ok := n.mimes[domain.FormatHTML]; ok {
		n.alternatives = append(n.alternatives, m)
	}
	for _, f := range []domain.Format{domain.FormatTurboStream, domain.FormatJSON, domain.FormatXML, domain.FormatCSV} {
		if m, ok := n.mimes[f]; ok {
			n.alternatives = append(n.alternatives, m)
		}
	}
	// Custom formats follow the builtins, sorted by name.
	var custom []string
	for f := range n.mimes {
		if !isBuiltin(f) {
			custom = append(custom, string(f))
		}
	}
	sort.Strings(custom)
	for _, f := range custom {
		n.alternatives = append(n.alternatives, n.mimes[domain.Format(f)])
	}
	return n
}

func isBuiltin(f domain.Format) bool {
	switch f {
	case domain.FormatHTML, domain.FormatTurboStream, domain.FormatJSON, domain.FormatXML, domain.FormatCSV:
		return true
	}
	return false
}

// Known reports whether f has a media type.
func (n *Negotiator) Known(f domain.Format) bool {
	_, ok := n.mimes[f]
	return ok
}

// MIME returns the media type of f.
func (n *Negotiator) MIME(f domain.Format) string {
	return n.mimes[f]
}

// Format resolves, in order: the "format" query parameter, the path
// extension stripped by StripExtension, the Accept header. Without any of
// them the request is html.
func (n *Negotiator) Format(r *http.Request) domain.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return domain.ParseFormat(f)
	}
	if f, ok := r.Context().Value(extKey{}).(domain.Format); ok {
		return f
	}
	if accept := r.Header.Get("Accept"); accept != "" {
		if m := goautoneg.Negotiate(accept, n.alternatives); m != "" {
			return n.formats[m]
		}
	}
	return domain.FormatHTML
}

// StripExtension removes a known format extension ("/posts/1.json") from
// the request path before routing and remembers it for Format.
func (n *Negotiator) StripExtension(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := path.Ext(r.URL.Path)
		if ext == "" {
			next.ServeHTTP(w, r)
			return
		}
		f := domain.ParseFormat(ext)
		if !n.Known(f) {
			next.ServeHTTP(w, r)
			return
		}

		trimmed := strings.TrimSuffix(r.URL.Path, ext)
		r.URL.Path = trimmed
		r.URL.RawPath = ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			rctx.RoutePath = trimmed
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), extKey{}, f)))
	})
}
