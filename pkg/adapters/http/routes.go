package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/aretw0/actionkit/pkg/domain"
)

// Options read from an action declaration to override its conventional route.
const (
	OptionMethod = "method"
	OptionPath   = "path"
)

// Route is one HTTP endpoint bound to a controller action.
type Route struct {
	Controller string
	Action     string
	Method     string
	Pattern    string
}

// conventional maps the REST action names to their method and path suffix.
var conventional = map[string]struct {
	methods []string
	suffix  string
}{
	"index":   {[]string{http.MethodGet}, ""},
	"new":     {[]string{http.MethodGet}, "/new"},
	"create":  {[]string{http.MethodPost}, ""},
	"show":    {[]string{http.MethodGet}, "/{id}"},
	"edit":    {[]string{http.MethodGet}, "/{id}/edit"},
	"update":  {[]string{http.MethodPut, http.MethodPatch}, "/{id}"},
	"destroy": {[]string{http.MethodDelete}, "/{id}"},
}

// RoutesFor computes the routes of a controller mounted under prefix.
// Conventional names follow the REST table; any other action becomes
// POST prefix/{name}. The "method" and "path" action options override both.
func RoutesFor(controller, prefix string, actions []*domain.ActionConfig) []Route {
	var routes []Route
	for _, a := range actions {
		methods, suffix := []string{http.MethodPost}, "/"+a.Name
		if conv, ok := conventional[a.Name]; ok {
			methods, suffix = conv.methods, conv.suffix
		}
		if m, ok := a.Options[OptionMethod].(string); ok && m != "" {
			methods = []string{strings.ToUpper(m)}
		}
		if p, ok := a.Options[OptionPath].(string); ok && p != "" {
			suffix = "/" + strings.TrimPrefix(p, "/")
		}
		for _, m := range methods {
			routes = append(routes, Route{
				Controller: controller,
				Action:     a.Name,
				Method:     m,
				Pattern:    joinPattern(prefix, suffix),
			})
		}
	}
	return routes
}

func joinPattern(prefix, suffix string) string {
	return path.Join("/", prefix, suffix)
}
