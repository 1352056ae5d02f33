package http

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

var pathParam = regexp.MustCompile(`\{([^}/:]+)(:[^}]*)?\}`)

// OpenAPI describes the mounted routes. Each operation lists the formats
// the action can answer on success and the statuses of its error tables.
func (s *Server) OpenAPI() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   s.title,
			Version: s.version,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, m := range s.mounts {
		for _, rt := range RoutesFor(m.ctrl.Name(), m.prefix, m.ctrl.Actions()) {
			cfg, ok := m.ctrl.Lookup(rt.Action)
			if !ok {
				continue
			}
			pattern := pathParam.ReplaceAllString(rt.Pattern, "{$1}")
			item := doc.Paths.Value(pattern)
			if item == nil {
				item = &openapi3.PathItem{}
				doc.Paths.Set(pattern, item)
			}
			item.SetOperation(rt.Method, s.operation(rt, cfg))
		}
	}
	return doc
}

func (s *Server) operation(rt Route, cfg *domain.ActionConfig) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = fmt.Sprintf("%s.%s.%s", rt.Controller, rt.Action, strings.ToLower(rt.Method))
	op.Summary = fmt.Sprintf("%s#%s", rt.Controller, rt.Action)
	if rt.Controller != "" {
		op.Tags = []string{rt.Controller}
	}

	for _, match := range pathParam.FindAllStringSubmatch(rt.Pattern, -1) {
		p := openapi3.NewPathParameter(match[1]).WithSchema(openapi3.NewStringSchema())
		op.AddParameter(p)
	}

	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Success").
		WithContent(s.content(successFormats(cfg))))

	for category, table := range cfg.OnError {
		status := domain.StatusFor(category)
		if category == domain.CategoryAny {
			op.AddResponse(0, openapi3.NewResponse().
				WithDescription("Any error").
				WithContent(s.content(table.Formats())))
			continue
		}
		op.AddResponse(status, openapi3.NewResponse().
			WithDescription(http.StatusText(status)).
			WithContent(s.content(table.Formats())))
	}
	return op
}

// successFormats lists the formats answered on success, including html
// when the action falls back to its view.
func successFormats(cfg *domain.ActionConfig) []domain.Format {
	formats := cfg.OnSuccess.Formats()
	if cfg.View() == domain.ViewNone {
		return formats
	}
	for _, f := range formats {
		if f == domain.FormatHTML {
			return formats
		}
	}
	return append(formats, domain.FormatHTML)
}

func (s *Server) content(formats []domain.Format) openapi3.Content {
	var mimes []string
	for _, f := range formats {
		if f == domain.FormatAny {
			mimes = append(mimes, "*/*")
			continue
		}
		if m := s.negotiator.MIME(f); m != "" {
			mimes = append(mimes, m)
		}
	}
	if len(mimes) == 0 {
		return nil
	}
	return openapi3.NewContentWithSchema(openapi3.NewSchema(), mimes)
}
